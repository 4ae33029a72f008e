package api

import "github.com/shopspring/decimal"

// Amounts in requests accept a JSON string or number. Amounts in responses are
// strings with two decimal places. Timestamps are RFC 3339 strings in UTC.

// Bill is a bill as seen by one user.
type Bill struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Role          string `json:"role,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// BillUser is an access grant.
type BillUser struct {
	BillID    string `json:"bill_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Payment is one recorded payment. UserID is omitted in shared views.
type Payment struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id,omitempty"`
	BillID        string `json:"bill_id"`
	BillType      string `json:"bill_type"`
	Amount        string `json:"amount"`
	PaidOn        string `json:"paid_on"`
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	Notes         string `json:"notes,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// MonthlyFinance is the money received in one period.
type MonthlyFinance struct {
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	MoneyReceived string `json:"money_received"`
	UpdatedAt     string `json:"updated_at"`
}

// CategoryTotal is the amount spent on one bill type in a period.
type CategoryTotal struct {
	BillType string `json:"bill_type"`
	Total    string `json:"total"`
}

// MonthlyTotal is one point of the historical series.
type MonthlyTotal struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
	Total string `json:"total"`
}

// Dashboard is the summary of one period.
type Dashboard struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Label      string          `json:"label"`
	Total      string          `json:"total"`
	Received   string          `json:"received"`
	Balance    string          `json:"balance"`
	Categories []CategoryTotal `json:"categories"`
	History    []MonthlyTotal  `json:"history"`
	Payments   []Payment       `json:"payments"`
}

// LedgerService messages.

type CreateBillRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

type CreateBillResponse struct {
	Bill Bill `json:"bill"`
}

type ListBillsRequest struct{}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

type ShareBillRequest struct {
	BillID string `json:"bill_id"`
	Email  string `json:"email"`
}

type ShareBillResponse struct {
	Link BillUser `json:"link"`
}

type UnshareBillRequest struct {
	BillID string `json:"bill_id"`
	UserID string `json:"user_id"`
}

type UnshareBillResponse struct{}

type RecordPaymentRequest struct {
	BillID        string          `json:"bill_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidOn        string          `json:"paid_on"`
	Notes         string          `json:"notes,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
}

// ListPaymentsRequest lists one period when Month and Year are set, and the
// full history when both are zero.
type ListPaymentsRequest struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type SetMonthlyFinanceRequest struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	MoneyReceived decimal.Decimal `json:"money_received"`
}

type SetMonthlyFinanceResponse struct {
	Finance MonthlyFinance `json:"finance"`
}

type GetMonthlyFinanceRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type GetMonthlyFinanceResponse struct {
	Finance MonthlyFinance `json:"finance"`
}

// DashboardService messages.

// GetDashboardRequest selects a period; zero values select the latest period
// with payments.
type GetDashboardRequest struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type GetDashboardResponse struct {
	Dashboard Dashboard `json:"dashboard"`
}

type IssueDashboardTokenRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// IssueDashboardTokenResponse carries the plaintext token. It is not
// retrievable again.
type IssueDashboardTokenResponse struct {
	Token     string `json:"token"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type RevokeDashboardTokenRequest struct {
	Token string `json:"token"`
}

type RevokeDashboardTokenResponse struct{}

// SendMonthlySummaryRequest mails a period summary. Recipient defaults to the
// caller's own email.
type SendMonthlySummaryRequest struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Recipient string `json:"recipient,omitempty"`
}

type SendMonthlySummaryResponse struct {
	Recipient string `json:"recipient"`
}

// PublicDashboardService messages.

type GetSharedDashboardRequest struct {
	Token string `json:"token"`
}

type GetSharedDashboardResponse struct {
	Dashboard Dashboard `json:"dashboard"`
}
