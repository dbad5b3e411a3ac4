package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Compose outcomes recorded by Metrics.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeAmbiguous  = "ambiguous"
	OutcomeTitleError = "title_error"
	OutcomeError      = "error"
)

// Metrics counts compositions served over HTTP and times requests to the
// upstream collaborators.
type Metrics struct {
	composed *prometheus.CounterVec
	duration prometheus.Histogram
	upstream *prometheus.HistogramVec
}

// NewMetrics registers the compose metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		composed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ftva_etl",
			Name:      "compositions_total",
			Help:      "Metadata compositions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ftva_etl",
			Name:      "composition_duration_seconds",
			Help:      "Time spent fetching and composing one record.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ftva_etl",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to Alma, FileMaker, Digital Data and NER providers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collaborator", "code", "method"}),
	}
	reg.MustRegister(m.composed, m.duration, m.upstream)
	return m
}

func (m *Metrics) observe(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.composed.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}

// InstrumentClient returns a copy of client whose requests are timed under
// the collaborator label.
func (m *Metrics) InstrumentClient(collaborator string, client *http.Client) *http.Client {
	if m == nil || client == nil {
		return client
	}
	instrumented := *client
	base := instrumented.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	observer := m.upstream.MustCurryWith(prometheus.Labels{"collaborator": collaborator})
	instrumented.Transport = promhttp.InstrumentRoundTripperDuration(observer, base)
	return &instrumented
}
