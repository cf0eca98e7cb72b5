// Package metrics counts gateway requests and optimistic outcomes on a
// private Prometheus registry.
package metrics

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "skillshare_client"

// Recorder implements client.RequestObserver and optimistic.Observer.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	optimistic      *prometheus.CounterVec
}

var (
	_ client.RequestObserver = (*Recorder)(nil)
	_ optimistic.Observer    = (*Recorder)(nil)
)

type config struct {
	buckets     []float64
	constLabels prometheus.Labels
}

type Option func(*config)

// WithBuckets sets the request duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *config) { c.buckets = buckets }
}

// WithConstLabels adds labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) { c.constLabels = labels }
}

func NewRecorder(opts ...Option) *Recorder {
	cfg := config{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "requests_total",
			Help:        "Backend requests by method and result kind",
			ConstLabels: cfg.constLabels,
		}, []string{"method", "kind"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "request_duration_seconds",
			Help:        "Backend request duration in seconds",
			ConstLabels: cfg.constLabels,
			Buckets:     cfg.buckets,
		}, []string{"method"}),
		optimistic: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "optimistic_total",
			Help:        "Optimistic mutations by collection, operation and outcome",
			ConstLabels: cfg.constLabels,
		}, []string{"collection", "op", "outcome"}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveRequest(method, kind string, elapsed time.Duration) {
	r.requests.WithLabelValues(method, kind).Inc()
	r.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveOptimistic(collection, op string, outcome optimistic.Outcome) {
	r.optimistic.WithLabelValues(collection, op, string(outcome)).Inc()
}

// Sample is one counter series.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot returns the current value of every counter, sorted by name and
// labels. Histograms are reported as their sample count.
func (r *Recorder) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			s := Sample{Name: mf.GetName(), Labels: labels(m)}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = m.GetCounter().GetValue()
			case dto.MetricType_HISTOGRAM:
				s.Name += "_count"
				s.Value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelKey(out[i].Labels) < labelKey(out[j].Labels)
	})
	return out, nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func labelKey(l map[string]string) string {
	names := make([]string, 0, len(l))
	for k := range l {
		names = append(names, k)
	}
	sort.Strings(names)
	key := ""
	for _, k := range names {
		key += k + "=" + l[k] + ","
	}
	return key
}
