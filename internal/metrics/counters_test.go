package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func storeOpCount(table, op, outcome string) float64 {
	return counterValue(storeOps.WithLabelValues(table, op, outcome))
}

func transitionCount(transition, outcome string) float64 {
	return counterValue(transitions.WithLabelValues(transition, outcome))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
