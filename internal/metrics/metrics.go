// Package metrics provides Prometheus-based metrics recording for the
// conversation dispatcher and the auth gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder records dispatcher and auth-gate events as Prometheus
// counters.
type PrometheusRecorder struct {
	eventsTotal    *prometheus.CounterVec
	refreshesTotal prometheus.Counter
	reauthsTotal   prometheus.Counter
	upstreamErrors *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_events_total",
				Help: "Total number of handled inbound events by state and status",
			},
			[]string{"state", "status"},
		),
		refreshesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bot_token_refreshes_total",
				Help: "Total number of silent access token refreshes",
			},
		),
		reauthsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bot_reauth_prompts_total",
				Help: "Total number of forced re-authentication prompts",
			},
		),
		upstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_upstream_errors_total",
				Help: "Total number of failed upstream calls by collaborator",
			},
			[]string{"upstream"},
		),
	}
}

// ObserveEvent records one handled inbound event.
func (p *PrometheusRecorder) ObserveEvent(state, status string) {
	p.eventsTotal.WithLabelValues(state, status).Inc()
}

// IncRefresh records a silent access token refresh.
func (p *PrometheusRecorder) IncRefresh() {
	p.refreshesTotal.Inc()
}

// IncReauth records a forced re-authentication prompt.
func (p *PrometheusRecorder) IncReauth() {
	p.reauthsTotal.Inc()
}

// IncUpstreamError records a failed call to an external collaborator.
func (p *PrometheusRecorder) IncUpstreamError(upstream string) {
	p.upstreamErrors.WithLabelValues(upstream).Inc()
}
