// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/payledger/backend/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	// CreateBill persists a new bill. ID and CreatedAt are populated when empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// DeleteBill removes a bill and its links. Used to compensate a failed create.
	DeleteBill(ctx context.Context, billID string) error

	// ListBillsForUser returns the distinct bills the user holds any role on,
	// oldest first.
	ListBillsForUser(ctx context.Context, userID string) ([]models.Bill, error)

	// LinkBillUser inserts a grant. An existing (bill, user) grant is left as is
	// and returned through link.
	LinkBillUser(ctx context.Context, link *models.BillUser) error

	// GetBillRoles returns every role userID holds on billID (possibly none).
	GetBillRoles(ctx context.Context, billID, userID string) ([]models.Role, error)

	// DeleteBillUser removes the grant of userID on billID.
	DeleteBillUser(ctx context.Context, billID, userID string) error

	// CreatePayment appends a payment. ID and CreatedAt are populated when empty.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns the user's payments ordered by creation time.
	// A nil period returns the full history.
	ListPayments(ctx context.Context, userID string, period *models.Period) ([]models.Payment, error)

	// UpsertMonthlyFinance writes the record in a single statement; an existing
	// (user, month, year) row is replaced.
	UpsertMonthlyFinance(ctx context.Context, finance *models.MonthlyFinance) error

	// GetMonthlyFinance returns the record for the key or an error wrapping ErrNotFound.
	GetMonthlyFinance(ctx context.Context, userID string, period models.Period) (*models.MonthlyFinance, error)

	// CreateDashboardToken persists a token by digest.
	CreateDashboardToken(ctx context.Context, token *models.DashboardToken) error

	// GetDashboardToken retrieves a token by digest or an error wrapping ErrNotFound.
	GetDashboardToken(ctx context.Context, digest string) (*models.DashboardToken, error)

	// RevokeDashboardToken marks the token revoked if it belongs to userID.
	RevokeDashboardToken(ctx context.Context, digest, userID string, revokedAt int64) error

	// UpsertUser records a sign-in, creating the user on first sight.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUserByEmail looks a user up by email or returns an error wrapping ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
