// Package promcollector exports arena metrics to Prometheus.
package promcollector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Daltonhensley19/refcollect"
)

const namespace = "refcollect"

// Collector implements refcollect.MetricsCollector with Prometheus metrics.
type Collector struct {
	allocations *prometheus.CounterVec
	marks       *prometheus.CounterVec
	sweeps      *prometheus.CounterVec
	reclaimed   *prometheus.CounterVec
	sweepTime   prometheus.Histogram
	teardowns   *prometheus.CounterVec
}

var _ refcollect.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer. Registration fails if the
// metrics are already registered with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Object allocations by status",
		}, []string{"status"}),
		marks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marks_total",
			Help:      "MarkUnreachable calls by status",
		}, []string{"status"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Sweep passes by status",
		}, []string{"status"}),
		reclaimed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_objects_total",
			Help:      "Objects released, by phase",
		}, []string{"phase"}),
		sweepTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of sweep passes",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		teardowns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardowns_total",
			Help:      "Arena teardowns by mode",
		}, []string{"mode"}),
	}

	for _, m := range []prometheus.Collector{
		c.allocations, c.marks, c.sweeps, c.reclaimed, c.sweepTime, c.teardowns,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAllocate implements refcollect.MetricsCollector.
func (c *Collector) RecordAllocate(err error) {
	c.allocations.WithLabelValues(status(err)).Inc()
}

// RecordMark implements refcollect.MetricsCollector.
func (c *Collector) RecordMark(err error) {
	c.marks.WithLabelValues(status(err)).Inc()
}

// RecordSweep implements refcollect.MetricsCollector.
func (c *Collector) RecordSweep(stats refcollect.SweepStats, err error) {
	c.sweeps.WithLabelValues(status(err)).Inc()
	c.reclaimed.WithLabelValues("sweep").Add(float64(stats.Reclaimed))
	c.sweepTime.Observe(stats.Duration.Seconds())
}

// RecordTeardown implements refcollect.MetricsCollector.
func (c *Collector) RecordTeardown(reclaimed int, leaked bool) {
	if leaked {
		c.teardowns.WithLabelValues("leaked").Inc()
		return
	}
	c.teardowns.WithLabelValues("reclaimed").Inc()
	c.reclaimed.WithLabelValues("teardown").Add(float64(reclaimed))
}
