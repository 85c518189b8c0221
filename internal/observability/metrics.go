package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for warning fetches and preference writes.
type Metrics struct {
	FetchTotal       *prometheus.CounterVec   // labels: screen, outcome={ready,error}
	FetchDuration    *prometheus.HistogramVec // labels: screen
	StaleWrites      *prometheus.CounterVec   // labels: screen, reason={superseded,unmounted}
	WarningsShown    *prometheus.GaugeVec     // labels: screen, severity
	PreferenceWrites *prometheus.CounterVec   // labels: key, outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smhi_warnings",
			Name:      "fetch_total",
			Help:      "Warning fetches by screen and outcome.",
		}, []string{"screen", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smhi_warnings",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a warning fetch including decode and normalization.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"screen"}),
		StaleWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smhi_warnings",
			Name:      "stale_state_writes_total",
			Help:      "Fetch results dropped because the screen was unmounted or a newer fetch started.",
		}, []string{"screen", "reason"}),
		WarningsShown: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "smhi_warnings",
			Name:      "warnings_shown",
			Help:      "Warnings currently shown per screen and severity.",
		}, []string{"screen", "severity"}),
		PreferenceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smhi_warnings",
			Name:      "preference_writes_total",
			Help:      "Preference persistence attempts by key and outcome.",
		}, []string{"key", "outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.StaleWrites,
		m.WarningsShown,
		m.PreferenceWrites,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
