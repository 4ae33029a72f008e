package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payledger_payments_recorded_total",
			Help: "Total number of payments recorded",
		},
	)

	billsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payledger_bills_created_total",
			Help: "Total number of bills created",
		},
	)

	eventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payledger_event_publish_failures_total",
			Help: "Ledger events that could not be published, by event type",
		},
		[]string{"type"},
	)
)
