package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "payledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateBill generates ID and timestamp", func(t *testing.T) {
		bill := &models.Bill{Name: "Electricity", PaymentMethod: "Card"}

		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetBill retrieves complete bill", func(t *testing.T) {
		original := &models.Bill{
			Name:          "Water",
			Description:   "Municipal water board",
			PaymentMethod: "Bank transfer",
			AccountNumber: "WB-1001",
		}
		if err := store.CreateBill(ctx, original); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		retrieved, err := store.GetBill(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if *retrieved != *original {
			t.Errorf("Bill mismatch: got %+v, want %+v", *retrieved, *original)
		}
	})

	t.Run("GetBill returns ErrNotFound for nonexistent bill", func(t *testing.T) {
		_, err := store.GetBill(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("LinkBillUser keeps the first grant", func(t *testing.T) {
		bill := &models.Bill{Name: "Internet"}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		owner := &models.BillUser{BillID: bill.ID, UserID: "u-link", Role: models.RoleOwner}
		if err := store.LinkBillUser(ctx, owner); err != nil {
			t.Fatalf("LinkBillUser failed: %v", err)
		}

		again := &models.BillUser{BillID: bill.ID, UserID: "u-link", Role: models.RoleViewer}
		if err := store.LinkBillUser(ctx, again); err != nil {
			t.Fatalf("second LinkBillUser failed: %v", err)
		}
		if again.Role != models.RoleOwner {
			t.Errorf("Expected existing owner grant to win, got %s", again.Role)
		}
		if again.CreatedAt != owner.CreatedAt {
			t.Errorf("Expected CreatedAt %d of existing grant, got %d", owner.CreatedAt, again.CreatedAt)
		}

		roles, err := store.GetBillRoles(ctx, bill.ID, "u-link")
		if err != nil {
			t.Fatalf("GetBillRoles failed: %v", err)
		}
		if len(roles) != 1 || roles[0] != models.RoleOwner {
			t.Errorf("Expected [owner], got %v", roles)
		}
	})

	t.Run("ListBillsForUser returns only linked bills", func(t *testing.T) {
		mine := &models.Bill{Name: "Gas"}
		other := &models.Bill{Name: "Rent"}
		for _, b := range []*models.Bill{mine, other} {
			if err := store.CreateBill(ctx, b); err != nil {
				t.Fatalf("CreateBill failed: %v", err)
			}
		}
		if err := store.LinkBillUser(ctx, &models.BillUser{BillID: mine.ID, UserID: "u-list", Role: models.RoleViewer}); err != nil {
			t.Fatalf("LinkBillUser failed: %v", err)
		}
		if err := store.LinkBillUser(ctx, &models.BillUser{BillID: other.ID, UserID: "someone-else", Role: models.RoleOwner}); err != nil {
			t.Fatalf("LinkBillUser failed: %v", err)
		}

		bills, err := store.ListBillsForUser(ctx, "u-list")
		if err != nil {
			t.Fatalf("ListBillsForUser failed: %v", err)
		}
		if len(bills) != 1 || bills[0].ID != mine.ID {
			t.Errorf("Expected only %s, got %+v", mine.ID, bills)
		}
	})

	t.Run("DeleteBill removes bill and grants", func(t *testing.T) {
		bill := &models.Bill{Name: "Phone"}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if err := store.LinkBillUser(ctx, &models.BillUser{BillID: bill.ID, UserID: "u-del", Role: models.RoleOwner}); err != nil {
			t.Fatalf("LinkBillUser failed: %v", err)
		}

		if err := store.DeleteBill(ctx, bill.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		roles, err := store.GetBillRoles(ctx, bill.ID, "u-del")
		if err != nil {
			t.Fatalf("GetBillRoles failed: %v", err)
		}
		if len(roles) != 0 {
			t.Errorf("Expected no roles after delete, got %v", roles)
		}
	})

	t.Run("DeleteBillUser on missing grant", func(t *testing.T) {
		err := store.DeleteBillUser(ctx, "no-bill", "no-user")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListPayments orders by creation and filters by period", func(t *testing.T) {
		june := models.NewDate(2025, 6, 10)
		july := models.NewDate(2025, 7, 2)
		payments := []*models.Payment{
			{UserID: "u-pay", BillID: "b1", BillType: "Electricity", Amount: decimal.RequireFromString("3000.00"), PaidOn: june, Month: 6, Year: 2025, CreatedAt: 100},
			{UserID: "u-pay", BillID: "b2", BillType: "Internet", Amount: decimal.RequireFromString("2000.50"), PaidOn: july, Month: 7, Year: 2025, CreatedAt: 200},
			{UserID: "u-pay", BillID: "b1", BillType: "Electricity", Amount: decimal.RequireFromString("10"), PaidOn: june, Month: 6, Year: 2025, CreatedAt: 300},
			{UserID: "u-other", BillID: "b1", BillType: "Electricity", Amount: decimal.RequireFromString("99"), PaidOn: june, Month: 6, Year: 2025, CreatedAt: 50},
		}
		for _, p := range payments {
			if err := store.CreatePayment(ctx, p); err != nil {
				t.Fatalf("CreatePayment failed: %v", err)
			}
		}

		all, err := store.ListPayments(ctx, "u-pay", nil)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Expected 3 payments, got %d", len(all))
		}
		for i, want := range []int64{100, 200, 300} {
			if all[i].CreatedAt != want {
				t.Errorf("payment %d: CreatedAt = %d, want %d", i, all[i].CreatedAt, want)
			}
		}
		if !all[1].Amount.Equal(decimal.RequireFromString("2000.5")) {
			t.Errorf("Amount round trip: got %s", all[1].Amount)
		}
		if all[1].PaidOn.String() != "2025-07-02" {
			t.Errorf("PaidOn round trip: got %s", all[1].PaidOn)
		}

		period := models.Period{Month: 6, Year: 2025}
		filtered, err := store.ListPayments(ctx, "u-pay", &period)
		if err != nil {
			t.Fatalf("ListPayments with period failed: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("Expected 2 June payments, got %d", len(filtered))
		}
	})

	t.Run("UpsertMonthlyFinance twice keeps one row", func(t *testing.T) {
		period := models.Period{Month: 6, Year: 2025}
		first := &models.MonthlyFinance{UserID: "u-fin", Month: 6, Year: 2025, MoneyReceived: decimal.NewFromInt(5000)}
		if err := store.UpsertMonthlyFinance(ctx, first); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		second := &models.MonthlyFinance{UserID: "u-fin", Month: 6, Year: 2025, MoneyReceived: decimal.NewFromInt(7000)}
		if err := store.UpsertMonthlyFinance(ctx, second); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		got, err := store.GetMonthlyFinance(ctx, "u-fin", period)
		if err != nil {
			t.Fatalf("GetMonthlyFinance failed: %v", err)
		}
		if !got.MoneyReceived.Equal(decimal.NewFromInt(7000)) {
			t.Errorf("MoneyReceived = %s, want 7000", got.MoneyReceived)
		}

		var count int
		err = store.DB().QueryRowContext(ctx,
			"SELECT COUNT(*) FROM monthly_finances WHERE user_id = ? AND month = ? AND year = ?",
			"u-fin", 6, 2025,
		).Scan(&count)
		if err != nil {
			t.Fatalf("count query failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 row, got %d", count)
		}
	})

	t.Run("GetMonthlyFinance missing record", func(t *testing.T) {
		_, err := store.GetMonthlyFinance(ctx, "u-fin", models.Period{Month: 1, Year: 1999})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("dashboard tokens revoke once and only for their user", func(t *testing.T) {
		tok := &models.DashboardToken{Digest: "abc123", UserID: "u-tok", Month: 6, Year: 2025}
		if err := store.CreateDashboardToken(ctx, tok); err != nil {
			t.Fatalf("CreateDashboardToken failed: %v", err)
		}

		if err := store.RevokeDashboardToken(ctx, "abc123", "intruder", 10); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign revoke, got %v", err)
		}
		if err := store.RevokeDashboardToken(ctx, "abc123", "u-tok", 10); err != nil {
			t.Fatalf("RevokeDashboardToken failed: %v", err)
		}
		if err := store.RevokeDashboardToken(ctx, "abc123", "u-tok", 20); err != nil {
			t.Fatalf("second RevokeDashboardToken failed: %v", err)
		}

		got, err := store.GetDashboardToken(ctx, "abc123")
		if err != nil {
			t.Fatalf("GetDashboardToken failed: %v", err)
		}
		if got.RevokedAt != 10 {
			t.Errorf("RevokedAt = %d, want first revocation 10", got.RevokedAt)
		}
		if got.Period() != (models.Period{Month: 6, Year: 2025}) {
			t.Errorf("Period = %+v", got.Period())
		}

		if _, err := store.GetDashboardToken(ctx, "ABC123"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected exact digest match, got %v", err)
		}
	})

	t.Run("UpsertUser creates once and updates last seen", func(t *testing.T) {
		u := &models.User{ID: "u-dir", Email: " Alice@Example.com ", CreatedAt: 1, LastSeenAt: 1}
		if err := store.UpsertUser(ctx, u); err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
		if err := store.UpsertUser(ctx, &models.User{ID: "u-dir", Email: "alice@example.com", CreatedAt: 5, LastSeenAt: 5}); err != nil {
			t.Fatalf("second UpsertUser failed: %v", err)
		}

		got, err := store.GetUserByEmail(ctx, "ALICE@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != "u-dir" || got.CreatedAt != 1 || got.LastSeenAt != 5 {
			t.Errorf("unexpected user %+v", got)
		}

		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpsertUser hands a reassigned email to the new subject", func(t *testing.T) {
		if err := store.UpsertUser(ctx, &models.User{ID: "old-sub", Email: "shared@example.com"}); err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}
		if err := store.UpsertUser(ctx, &models.User{ID: "new-sub", Email: "Shared@example.com"}); err != nil {
			t.Fatalf("UpsertUser for new subject failed: %v", err)
		}

		got, err := store.GetUserByEmail(ctx, "shared@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != "new-sub" {
			t.Errorf("email resolves to %q, want new-sub", got.ID)
		}

		// Later sign-ins of the new subject keep working.
		if err := store.UpsertUser(ctx, &models.User{ID: "new-sub", Email: "shared@example.com"}); err != nil {
			t.Fatalf("repeat UpsertUser failed: %v", err)
		}
	})
}
