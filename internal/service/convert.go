package service

import (
	"time"

	"github.com/payledger/backend/internal/aggregate"
	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/pkg/api"
)

// formatMicros renders a Unix-microsecond timestamp as RFC 3339 in UTC.
func formatMicros(us int64) string {
	if us == 0 {
		return ""
	}
	return time.UnixMicro(us).UTC().Format(time.RFC3339)
}

func toAPIBill(b models.Bill, role models.Role) api.Bill {
	return api.Bill{
		ID:            b.ID,
		Name:          b.Name,
		Description:   b.Description,
		PaymentMethod: b.PaymentMethod,
		AccountNumber: b.AccountNumber,
		Role:          string(role),
		CreatedAt:     formatMicros(b.CreatedAt),
	}
}

func toAPIBills(bills []ledger.BillWithRole) []api.Bill {
	out := make([]api.Bill, len(bills))
	for i, b := range bills {
		out[i] = toAPIBill(b.Bill, b.Role)
	}
	return out
}

func toAPIBillUser(l *models.BillUser) api.BillUser {
	return api.BillUser{
		BillID:    l.BillID,
		UserID:    l.UserID,
		Role:      string(l.Role),
		CreatedAt: formatMicros(l.CreatedAt),
	}
}

func toAPIPayment(p models.Payment) api.Payment {
	return api.Payment{
		ID:            p.ID,
		UserID:        p.UserID,
		BillID:        p.BillID,
		BillType:      p.BillType,
		Amount:        p.Amount.StringFixed(2),
		PaidOn:        p.PaidOn.String(),
		Month:         p.Month,
		Year:          p.Year,
		Notes:         p.Notes,
		AccountNumber: p.AccountNumber,
		CreatedAt:     formatMicros(p.CreatedAt),
	}
}

func toAPIPayments(payments []models.Payment) []api.Payment {
	out := make([]api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return out
}

func toAPIFinance(f *models.MonthlyFinance) api.MonthlyFinance {
	return api.MonthlyFinance{
		Month:         f.Month,
		Year:          f.Year,
		MoneyReceived: f.MoneyReceived.StringFixed(2),
		UpdatedAt:     formatMicros(f.UpdatedAt),
	}
}

func toAPIDashboard(s aggregate.Summary) api.Dashboard {
	categories := make([]api.CategoryTotal, len(s.Categories))
	for i, c := range s.Categories {
		categories[i] = api.CategoryTotal{BillType: c.BillType, Total: c.Total.StringFixed(2)}
	}
	history := make([]api.MonthlyTotal, len(s.History))
	for i, h := range s.History {
		history[i] = api.MonthlyTotal{
			Month: h.Period.Month,
			Year:  h.Period.Year,
			Label: h.Label,
			Total: h.Total.StringFixed(2),
		}
	}
	return api.Dashboard{
		Month:      s.Period.Month,
		Year:       s.Period.Year,
		Label:      s.Period.Label(),
		Total:      s.Total.StringFixed(2),
		Received:   s.Received.StringFixed(2),
		Balance:    s.Balance.StringFixed(2),
		Categories: categories,
		History:    history,
		Payments:   toAPIPayments(s.Payments),
	}
}
