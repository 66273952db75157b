package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuotaMetrics tracks access scenario resolutions and quota decisions.
type QuotaMetrics struct {
	scenarios *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewQuotaMetrics registers the quota metrics on the provided registerer.
func NewQuotaMetrics(reg prometheus.Registerer) *QuotaMetrics {
	if reg == nil {
		return &QuotaMetrics{}
	}
	scenarios := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_scenario_resolutions",
		Help: "Access scenario resolutions by resulting scenario.",
	}, []string{"scenario"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_decisions",
		Help: "Quota guard decisions by action and outcome.",
	}, []string{"action", "outcome"})
	reg.MustRegister(scenarios, decisions)
	return &QuotaMetrics{
		scenarios: scenarios,
		decisions: decisions,
	}
}

// IncScenario counts a resolved access scenario.
func (q *QuotaMetrics) IncScenario(scenario string) {
	if q == nil || q.scenarios == nil {
		return
	}
	q.scenarios.WithLabelValues(normalizeLabel(scenario)).Inc()
}

// IncAllowed counts an allowed quota decision for the action.
func (q *QuotaMetrics) IncAllowed(action string) {
	if q == nil || q.decisions == nil {
		return
	}
	q.decisions.WithLabelValues(normalizeLabel(action), "allowed").Inc()
}

// IncDenied counts a denied quota decision with the deny reason as outcome.
func (q *QuotaMetrics) IncDenied(action, reason string) {
	if q == nil || q.decisions == nil {
		return
	}
	q.decisions.WithLabelValues(normalizeLabel(action), normalizeLabel(reason)).Inc()
}
