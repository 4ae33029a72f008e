// Package events publishes ledger change notifications for downstream consumers.
//
// Publishing is best effort. The ledger logs a failed publish and carries on;
// the database remains the source of truth.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	PaymentRecorded       = "payment.recorded"
	MonthlyFinanceUpdated = "monthly_finance.updated"
	BillShared            = "bill.shared"
)

// Event is one ledger change.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Key        string    `json:"key"` // partition key, usually the affected record id
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
