package darkgraph

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics counts what the poll loop does. Each instance has its own registry.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	renders       prometheus.Counter
	stale         prometheus.Counter
	buckets       *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "darkgraph_fetches_total",
			Help: "Poll requests by result (ok, transport, malformed).",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "darkgraph_fetch_duration_seconds",
			Help:    "Time from issuing a poll to its completion.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkgraph_renders_total",
			Help: "Poll responses rendered into charts.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "darkgraph_stale_responses_total",
			Help: "Responses dropped because a newer one was already shown.",
		}),
		buckets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "darkgraph_buckets",
			Help: "Buckets in the last rendered response per series.",
		}, []string{"series"}),
	}
	m.registry.MustRegister(m.fetches, m.fetchDuration, m.renders, m.stale, m.buckets)
	return m
}

// ObserveFetch records the outcome of one poll.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	m.fetchDuration.Observe(d.Seconds())
	m.fetches.WithLabelValues(fetchResult(err)).Inc()
}

// ObserveRender records a rendered response.
func (m *Metrics) ObserveRender(views []SeriesView) {
	m.renders.Inc()
	for _, v := range views {
		m.buckets.WithLabelValues(v.Series.Name).Set(float64(len(v.Bars)))
	}
}

// ObserveStale records a response dropped for being out of order.
func (m *Metrics) ObserveStale() {
	m.stale.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteText dumps every metric family in the plain text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isMalformed(err):
		return "malformed"
	default:
		return "transport"
	}
}
