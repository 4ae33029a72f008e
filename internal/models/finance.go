package models

import "github.com/shopspring/decimal"

// MonthlyFinance is a user's recorded inflow for one period.
// (UserID, Month, Year) is unique; writing an existing key replaces MoneyReceived.
type MonthlyFinance struct {
	UserID string
	Month  int
	Year   int

	// MoneyReceived is the income baseline the period's payments are compared against.
	MoneyReceived decimal.Decimal

	// UpdatedAt is the Unix timestamp (microseconds) of the last write.
	UpdatedAt int64
}

// Period returns the (month, year) key of the record.
func (f MonthlyFinance) Period() Period {
	return Period{Month: f.Month, Year: f.Year}
}
