package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

const billColumns = "id, name, description, payment_method, account_number, created_at"

// CreateBill persists a new bill to the database.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate ID if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = s.nowMicro()
	}

	_, err := s.exec(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Name, bill.Description, bill.PaymentMethod, bill.AccountNumber, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *Store) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	row := s.queryRow(ctx, "SELECT "+billColumns+" FROM bills WHERE id = ?", billID)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// DeleteBill removes a bill together with its grants.
func (s *Store) DeleteBill(ctx context.Context, billID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM bill_users WHERE bill_id = ?"), billID); err != nil {
		return fmt.Errorf("failed to delete bill grants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM bills WHERE id = ?"), billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBillsForUser returns every bill the user holds a role on.
func (s *Store) ListBillsForUser(ctx context.Context, userID string) ([]models.Bill, error) {
	rows, err := s.query(ctx,
		`SELECT `+billColumns+` FROM bills
		 WHERE id IN (SELECT bill_id FROM bill_users WHERE user_id = ?)
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// LinkBillUser inserts a grant, keeping any existing grant for the same (bill, user).
// On return link holds the stored role and creation time.
func (s *Store) LinkBillUser(ctx context.Context, link *models.BillUser) error {
	if link.CreatedAt == 0 {
		link.CreatedAt = s.nowMicro()
	}

	_, err := s.exec(ctx,
		`INSERT INTO bill_users (bill_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (bill_id, user_id) DO NOTHING`,
		link.BillID, link.UserID, string(link.Role), link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill grant: %w", err)
	}

	var role string
	err = s.queryRow(ctx,
		"SELECT role, created_at FROM bill_users WHERE bill_id = ? AND user_id = ?",
		link.BillID, link.UserID,
	).Scan(&role, &link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read bill grant: %w", err)
	}
	if link.Role, err = models.ParseRole(role); err != nil {
		return err
	}
	return nil
}

// GetBillRoles returns the roles userID holds on billID.
func (s *Store) GetBillRoles(ctx context.Context, billID, userID string) ([]models.Role, error) {
	rows, err := s.query(ctx,
		"SELECT role FROM bill_users WHERE bill_id = ? AND user_id = ?",
		billID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		r, err := models.ParseRole(role)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}

// DeleteBillUser removes a grant.
func (s *Store) DeleteBillUser(ctx context.Context, billID, userID string) error {
	res, err := s.exec(ctx, "DELETE FROM bill_users WHERE bill_id = ? AND user_id = ?", billID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bill grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("grant of %s on bill %s: %w", userID, billID, storage.ErrNotFound)
	}
	return nil
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	err := row.Scan(&bill.ID, &bill.Name, &bill.Description, &bill.PaymentMethod, &bill.AccountNumber, &bill.CreatedAt)
	if err != nil {
		return nil, err
	}
	return bill, nil
}
