package models

import "github.com/shopspring/decimal"

// Payment is one recorded payment toward a bill.
// Payments are append-only: there is no edit or delete.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// UserID is the user who recorded the payment. Never transferred.
	UserID string

	// BillID is the bill the payment was recorded against.
	BillID string

	// BillType is the bill name at the time of recording.
	// It is a historical snapshot, not a live reference: renaming the bill later
	// does not rewrite the ledger.
	BillType string

	// Amount is the positive amount paid, rounded to two decimal places.
	Amount decimal.Decimal

	// PaidOn is the calendar date the payment was made.
	PaidOn Date

	// Month and Year are derived from PaidOn and are never set independently.
	Month int
	Year  int

	// Notes is optional free-form text.
	Notes string

	// AccountNumber is the account the payment was made to.
	AccountNumber string

	// CreatedAt is the Unix timestamp (microseconds) when the payment was recorded.
	CreatedAt int64
}

// Period returns the (month, year) the payment belongs to.
func (p Payment) Period() Period {
	return Period{Month: p.Month, Year: p.Year}
}
