// Package metrics exposes Prometheus counters for record-store operations and
// lifecycle transitions.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePartial = "partial"
	OutcomeBusy    = "busy"
)

var (
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "store_operations_total",
		Help:      "Record store operations by table, operation and outcome.",
	}, []string{"table", "op", "outcome"})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "lifecycle_transitions_total",
		Help:      "Lifecycle transitions by kind and outcome.",
	}, []string{"transition", "outcome"})
)

// ObserveStoreOp counts one store call.
func ObserveStoreOp(table, op string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	storeOps.WithLabelValues(table, op, outcome).Inc()
}

// ObserveTransition counts one lifecycle transition attempt.
func ObserveTransition(transition, outcome string) {
	transitions.WithLabelValues(transition, outcome).Inc()
}

// Handler serves the default registry on a Fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
