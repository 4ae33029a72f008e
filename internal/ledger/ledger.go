// Package ledger implements bill, payment and monthly finance operations on
// behalf of an explicit caller, enforcing the role capabilities of each bill.
//
// Every operation takes the acting user's id as an argument; the ledger never
// reads identity from ambient state. Store errors are wrapped and propagated,
// with storage.ErrNotFound translated to ErrNotFound.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/payledger/backend/internal/aggregate"
	"github.com/payledger/backend/internal/events"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

// Ledger coordinates the store, access control and event publishing.
type Ledger struct {
	store  storage.Store
	events events.Publisher
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets the publisher ledger events are sent to.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, events: events.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BillInput holds the caller-supplied fields of a new bill.
type BillInput struct {
	Name          string
	Description   string
	PaymentMethod string
	AccountNumber string
}

// PaymentInput holds the caller-supplied fields of a new payment.
// Month and year are not accepted: they are derived from PaidOn.
type PaymentInput struct {
	BillID        string
	Amount        decimal.Decimal
	PaidOn        string // YYYY-MM-DD
	Notes         string
	AccountNumber string // defaults to the bill's account number
}

// CreateBill creates a bill and grants the creator the owner role.
// If the grant cannot be written the bill is deleted again.
func (l *Ledger) CreateBill(ctx context.Context, userID string, in BillInput) (*models.Bill, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "required")
	}

	bill := &models.Bill{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		CreatedAt:     l.nowMicro(),
	}
	if err := l.store.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	owner := &models.BillUser{
		BillID:    bill.ID,
		UserID:    userID,
		Role:      models.RoleOwner,
		CreatedAt: bill.CreatedAt,
	}
	if err := l.store.LinkBillUser(ctx, owner); err != nil {
		linkErr := fmt.Errorf("failed to grant owner: %w", err)
		if delErr := l.store.DeleteBill(ctx, bill.ID); delErr != nil {
			slog.Error("Failed to remove bill after grant failure", "bill_id", bill.ID, "error", delErr)
			return nil, errors.Join(linkErr, fmt.Errorf("failed to remove orphaned bill: %w", delErr))
		}
		return nil, linkErr
	}

	billsCreated.Inc()
	slog.Info("Bill created", "bill_id", bill.ID, "user_id", userID, "name", bill.Name)
	return bill, nil
}

// BillWithRole is a bill together with the caller's role on it.
type BillWithRole struct {
	models.Bill
	Role models.Role
}

// ListBills returns every bill the user holds a role on, oldest first.
func (l *Ledger) ListBills(ctx context.Context, userID string) ([]BillWithRole, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}

	bills, err := l.store.ListBillsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	result := make([]BillWithRole, 0, len(bills))
	for _, b := range bills {
		roles, err := l.store.GetBillRoles(ctx, b.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roles: %w", err)
		}
		result = append(result, BillWithRole{Bill: b, Role: models.Strongest(roles)})
	}
	return result, nil
}

// RecordPayment appends a payment against a bill the user holds a role on.
// Input is validated before access is checked, and nothing is written when
// either fails.
func (l *Ledger) RecordPayment(ctx context.Context, userID string, in PaymentInput) (*models.Payment, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}
	if in.BillID == "" {
		return nil, invalid("bill_id", "required")
	}
	if !amountInRange(in.Amount) {
		return nil, ErrAmountOutOfRange
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paidOn, err := models.ParseDate(strings.TrimSpace(in.PaidOn))
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := paidOn.Period().Validate(); err != nil {
		return nil, ErrInvalidDate
	}

	role, err := l.Authorize(ctx, userID, in.BillID)
	if err != nil {
		return nil, err
	}
	if !role.Capabilities().RecordPayment {
		return nil, fmt.Errorf("%s cannot record payments on bill %s: %w", role, in.BillID, ErrDenied)
	}

	bill, err := l.store.GetBill(ctx, in.BillID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("bill %s: %w", in.BillID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	account := strings.TrimSpace(in.AccountNumber)
	if account == "" {
		account = bill.AccountNumber
	}

	period := paidOn.Period()
	payment := &models.Payment{
		UserID:        userID,
		BillID:        bill.ID,
		BillType:      bill.Name,
		Amount:        amount,
		PaidOn:        paidOn,
		Month:         period.Month,
		Year:          period.Year,
		Notes:         strings.TrimSpace(in.Notes),
		AccountNumber: account,
		CreatedAt:     l.nowMicro(),
	}
	if err := l.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	paymentsRecorded.Inc()
	slog.Info("Payment recorded",
		"payment_id", payment.ID,
		"user_id", userID,
		"bill_id", bill.ID,
		"amount", payment.Amount.StringFixed(2),
		"period", period.Label(),
	)
	l.publish(ctx, events.Event{
		Type:   events.PaymentRecorded,
		UserID: userID,
		Key:    payment.ID,
		Data: map[string]string{
			"bill_id":   payment.BillID,
			"bill_type": payment.BillType,
			"amount":    payment.Amount.StringFixed(2),
			"paid_on":   payment.PaidOn.String(),
		},
	})
	return payment, nil
}

// ListPayments returns the user's payments in recording order, optionally
// restricted to one period.
func (l *Ledger) ListPayments(ctx context.Context, userID string, period *models.Period) ([]models.Payment, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}
	if period != nil {
		if err := period.Validate(); err != nil {
			return nil, invalid("period", err.Error())
		}
	}

	payments, err := l.store.ListPayments(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// SetMonthlyFinance records the money received in a period, replacing any
// earlier value for the same period.
func (l *Ledger) SetMonthlyFinance(ctx context.Context, userID string, period models.Period, received decimal.Decimal) (*models.MonthlyFinance, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}
	if err := period.Validate(); err != nil {
		return nil, invalid("period", err.Error())
	}
	if !amountInRange(received) {
		return nil, invalid("money_received", ErrAmountOutOfRange.Reason)
	}
	received = received.Round(2)
	if received.IsNegative() {
		return nil, invalid("money_received", "must not be negative")
	}

	finance := &models.MonthlyFinance{
		UserID:        userID,
		Month:         period.Month,
		Year:          period.Year,
		MoneyReceived: received,
		UpdatedAt:     l.nowMicro(),
	}
	if err := l.store.UpsertMonthlyFinance(ctx, finance); err != nil {
		return nil, fmt.Errorf("failed to save monthly finance: %w", err)
	}

	slog.Info("Monthly finance saved", "user_id", userID, "period", period.Label(), "received", received.StringFixed(2))
	l.publish(ctx, events.Event{
		Type:   events.MonthlyFinanceUpdated,
		UserID: userID,
		Key:    fmt.Sprintf("%s/%04d-%02d", userID, period.Year, period.Month),
		Data:   map[string]string{"money_received": received.StringFixed(2)},
	})
	return finance, nil
}

// GetMonthlyFinance returns the record for period or ErrNotFound.
func (l *Ledger) GetMonthlyFinance(ctx context.Context, userID string, period models.Period) (*models.MonthlyFinance, error) {
	if userID == "" {
		return nil, invalid("user_id", "required")
	}
	if err := period.Validate(); err != nil {
		return nil, invalid("period", err.Error())
	}

	finance, err := l.store.GetMonthlyFinance(ctx, userID, period)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("monthly finance for %s: %w", period.Label(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly finance: %w", err)
	}
	return finance, nil
}

// Dashboard summarizes the user's ledger for period. A nil period selects the
// latest period with any payment, falling back to the current month.
func (l *Ledger) Dashboard(ctx context.Context, userID string, period *models.Period) (aggregate.Summary, error) {
	if userID == "" {
		return aggregate.Summary{}, invalid("user_id", "required")
	}
	if period != nil {
		return l.Summary(ctx, userID, *period)
	}

	payments, err := l.store.ListPayments(ctx, userID, nil)
	if err != nil {
		return aggregate.Summary{}, fmt.Errorf("failed to list payments: %w", err)
	}
	latest, ok := aggregate.LatestPeriod(payments)
	if !ok {
		now := l.now()
		latest = models.Period{Month: int(now.Month()), Year: now.Year()}
	}

	finance, err := l.optionalFinance(ctx, userID, latest)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(payments, finance, latest), nil
}

// Summary summarizes the user's ledger for a fixed period. Payments and the
// period's finance record are loaded concurrently.
func (l *Ledger) Summary(ctx context.Context, userID string, period models.Period) (aggregate.Summary, error) {
	if err := period.Validate(); err != nil {
		return aggregate.Summary{}, invalid("period", err.Error())
	}

	var (
		payments []models.Payment
		finance  *models.MonthlyFinance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = l.store.ListPayments(gctx, userID, nil)
		if err != nil {
			return fmt.Errorf("failed to list payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		finance, err = l.optionalFinance(gctx, userID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return aggregate.Summary{}, err
	}

	return aggregate.Summarize(payments, finance, period), nil
}

// optionalFinance returns nil without error when no record exists.
func (l *Ledger) optionalFinance(ctx context.Context, userID string, period models.Period) (*models.MonthlyFinance, error) {
	finance, err := l.store.GetMonthlyFinance(ctx, userID, period)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly finance: %w", err)
	}
	return finance, nil
}

// maxAmount is the exclusive bound of stored amounts, matching NUMERIC(14, 2).
var maxAmount = decimal.New(1, 12)

// amountInRange bounds magnitude and scale. It must run before Round, which
// expands a value like 1e30000000 digit by digit.
func amountInRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp > 12 || exp < -12 {
		return false
	}
	return d.Abs().LessThan(maxAmount)
}

func (l *Ledger) nowMicro() int64 {
	return l.now().UnixMicro()
}

// publish sends an event without failing the caller.
func (l *Ledger) publish(ctx context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = l.now().UTC()
	}
	if err := l.events.Publish(ctx, event); err != nil {
		eventPublishFailures.WithLabelValues(event.Type).Inc()
		slog.Warn("Failed to publish ledger event", "type", event.Type, "key", event.Key, "error", err)
	}
}
