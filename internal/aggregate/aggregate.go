// Package aggregate turns a user's payments into per-period views.
//
// Every function here is pure: callers load payments and finance records
// from the store and pass them in. Amounts are summed as decimals, so the
// per-category totals of a period always add up to the period total.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/payledger/backend/internal/models"
)

// MonthlyTotal is one point of the historical series.
type MonthlyTotal struct {
	Period models.Period
	Label  string
	Total  decimal.Decimal
}

// CategoryTotal is the amount spent on one bill type within a period.
type CategoryTotal struct {
	BillType string
	Total    decimal.Decimal
}

// Summary is the dashboard view of one period.
type Summary struct {
	Period models.Period

	// Payments holds the period's payments in recording order.
	Payments []models.Payment

	Total    decimal.Decimal
	Received decimal.Decimal

	// Balance is Received minus Total. It goes negative when spending exceeds income.
	Balance decimal.Decimal

	Categories []CategoryTotal
	History    []MonthlyTotal
}

// MonthTotal sums the payments falling in period. No match yields zero.
func MonthTotal(payments []models.Payment, period models.Period) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Period() == period {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Balance returns received - total, unclamped.
func Balance(received, total decimal.Decimal) decimal.Decimal {
	return received.Sub(total)
}

// HistoricalSeries groups payments by period, oldest period first.
func HistoricalSeries(payments []models.Payment) []MonthlyTotal {
	totals := make(map[models.Period]decimal.Decimal)
	for _, p := range payments {
		period := p.Period()
		if cur, ok := totals[period]; ok {
			totals[period] = cur.Add(p.Amount)
		} else {
			totals[period] = p.Amount
		}
	}

	series := make([]MonthlyTotal, 0, len(totals))
	for period, total := range totals {
		series = append(series, MonthlyTotal{Period: period, Label: period.Label(), Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Period.Before(series[j].Period)
	})
	return series
}

// CategoryBreakdown totals the period's payments by BillType, sorted by name.
func CategoryBreakdown(payments []models.Payment, period models.Period) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if p.Period() != period {
			continue
		}
		if cur, ok := totals[p.BillType]; ok {
			totals[p.BillType] = cur.Add(p.Amount)
		} else {
			totals[p.BillType] = p.Amount
		}
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for billType, total := range totals {
		breakdown = append(breakdown, CategoryTotal{BillType: billType, Total: total})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].BillType < breakdown[j].BillType
	})
	return breakdown
}

// Summarize builds the dashboard view for period from the user's full payment
// history. A nil finance record counts as nothing received.
func Summarize(payments []models.Payment, finance *models.MonthlyFinance, period models.Period) Summary {
	received := decimal.Zero
	if finance != nil {
		received = finance.MoneyReceived
	}

	var inPeriod []models.Payment
	for _, p := range payments {
		if p.Period() == period {
			inPeriod = append(inPeriod, p)
		}
	}

	total := MonthTotal(payments, period)
	return Summary{
		Period:     period,
		Payments:   inPeriod,
		Total:      total,
		Received:   received,
		Balance:    Balance(received, total),
		Categories: CategoryBreakdown(payments, period),
		History:    HistoricalSeries(payments),
	}
}

// LatestPeriod returns the most recent period holding any payment.
// ok is false when payments is empty.
func LatestPeriod(payments []models.Payment) (latest models.Period, ok bool) {
	for _, p := range payments {
		period := p.Period()
		if !ok || latest.Before(period) {
			latest, ok = period, true
		}
	}
	return latest, ok
}
