package sharing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tokenResolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payledger_token_resolutions_total",
		Help: "Dashboard token resolutions by outcome",
	},
	[]string{"outcome"}, // ok, malformed, unknown, inactive
)
