package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitepulse"

// Metrics holds the engine's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	checksTotal     *prometheus.CounterVec
	probeDuration   prometheus.Histogram
	incidentsOpened prometheus.Counter
	cyclesTotal     *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	sitesSkipped    prometheus.Counter
	alertDeliveries *prometheus.CounterVec
}

// New registers collectors on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Checks recorded, by outcome",
			},
			[]string{"status"},
		),
		probeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_duration_seconds",
				Help:      "Probe latency in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		incidentsOpened: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "incidents_opened_total",
				Help:      "Incidents opened by the correlator",
			},
		),
		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Check cycles, by result",
			},
			[]string{"result"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Wall time of a full check cycle",
				Buckets:   prometheus.DefBuckets,
			},
		),
		sitesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sites_skipped_total",
				Help:      "Sites whose processing failed within a cycle",
			},
		),
		alertDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_deliveries_total",
				Help:      "Alert sends, by channel and result",
			},
			[]string{"channel", "result"},
		),
	}

	reg.MustRegister(
		m.checksTotal,
		m.probeDuration,
		m.incidentsOpened,
		m.cyclesTotal,
		m.cycleDuration,
		m.sitesSkipped,
		m.alertDeliveries,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCheck(status string, durationMS int) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(status).Inc()
	m.probeDuration.Observe((time.Duration(durationMS) * time.Millisecond).Seconds())
}

func (m *Metrics) IncIncidentsOpened() {
	if m == nil {
		return
	}
	m.incidentsOpened.Inc()
}

func (m *Metrics) ObserveCycle(result string, elapsed time.Duration, skipped int) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(result).Inc()
	if result == "completed" {
		m.cycleDuration.Observe(elapsed.Seconds())
	}
	if skipped > 0 {
		m.sitesSkipped.Add(float64(skipped))
	}
}

func (m *Metrics) ObserveDelivery(channel string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.alertDeliveries.WithLabelValues(channel, result).Inc()
}
