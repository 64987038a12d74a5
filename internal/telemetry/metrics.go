package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the app's Prometheus collectors on a private registry, served
// by the dev HTTP server.
type Metrics struct {
	Registry         *prometheus.Registry
	Actions          *prometheus.CounterVec
	FocusCorrections prometheus.Counter
	Results          *prometheus.CounterVec
	ContentAttempts  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clozedojo_actions_total",
			Help: "Cell actions handled by the input engine, by kind.",
		}, []string{"kind"}),
		FocusCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clozedojo_focus_corrections_total",
			Help: "Times the focus watchdog restored focus after drift.",
		}),
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clozedojo_results_total",
			Help: "Submitted passages, by whether the result was persisted.",
		}, []string{"persisted"}),
		ContentAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clozedojo_content_fetch_attempts_total",
			Help: "Passage fetch attempts, by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(m.Actions, m.FocusCorrections, m.Results, m.ContentAttempts)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
