package container

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	constructions *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partgrid_part_constructions_total",
				Help: "Number of completed part constructions.",
			},
			[]string{"part"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partgrid_part_construction_failures_total",
				Help: "Number of part constructions that returned an error.",
			},
			[]string{"part"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partgrid_part_construction_duration_seconds",
				Help:    "Time spent inside part constructors.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"part"},
		),
	}
	if reg != nil {
		m.constructions = register(reg, m.constructions)
		m.failures = register(reg, m.failures)
		m.duration = register(reg, m.duration)
	}
	return m
}

// register adds c to reg, reusing an identical collector registered by an
// earlier provider.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(partID string, elapsed time.Duration, err error) {
	m.duration.WithLabelValues(partID).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(partID).Inc()
		return
	}
	m.constructions.WithLabelValues(partID).Inc()
}
