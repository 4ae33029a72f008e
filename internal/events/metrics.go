package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveryFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payledger_event_delivery_failures_total",
		Help: "Queued ledger events the broker did not acknowledge, by event type",
	},
	[]string{"type"},
)
