// Package metrics exposes Prometheus collectors for validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pschema"

// Collector groups the validation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	supersteps prometheus.Counter
	messages   prometheus.Counter
	decided    prometheus.Counter
	forced     prometheus.Counter
	focus      prometheus.Gauge
	triples    prometheus.Gauge
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Validation runs by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Wall time of a validation run, evaluation and extraction.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		supersteps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supersteps_total",
			Help:      "Committed supersteps.",
		}),
		messages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages delivered between supersteps.",
		}),
		decided: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decided_pairs_total",
			Help:      "Vertex and shape pairs that reached a final verdict.",
		}),
		forced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_pairs_total",
			Help:      "Pairs ruled not satisfied to resolve a reference cycle.",
		}),
		focus: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_focus_vertices",
			Help:      "Vertices satisfying the root shape in the last run.",
		}),
		triples: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_subgraph_triples",
			Help:      "Triples in the last extracted subgraph.",
		}),
	}
}

// ObserveSuperstep records one committed superstep.
func (c *Collector) ObserveSuperstep(messages, decided, forced int) {
	if c == nil {
		return
	}
	c.supersteps.Inc()
	c.messages.Add(float64(messages))
	c.decided.Add(float64(decided))
	c.forced.Add(float64(forced))
}

// ObserveRun records a finished run. err is nil on success.
func (c *Collector) ObserveRun(d time.Duration, focus, triples int, err error) {
	if c == nil {
		return
	}
	c.duration.Observe(d.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
		return
	}
	c.runs.WithLabelValues("ok").Inc()
	c.focus.Set(float64(focus))
	c.triples.Set(float64(triples))
}
