package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the invocation harness.
type Metrics struct {
	Invocations    *prometheus.CounterVec
	Instructions   *prometheus.CounterVec
	DeliveryErrors *prometheus.CounterVec
}

// NewMetrics creates a metrics collector registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Name:      "invocations_total",
				Help:      "Total invocations processed",
			},
			[]string{"service", "op", "outcome"},
		),
		Instructions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Name:      "instructions_total",
				Help:      "Instructions emitted to the host module",
			},
			[]string{"service", "kind"},
		),
		DeliveryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tokengate",
				Name:      "instruction_delivery_errors_total",
				Help:      "Instruction deliveries rejected by the host module",
			},
			[]string{"service", "kind"},
		),
	}
}
