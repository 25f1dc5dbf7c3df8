package graphcache

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/rfc9211"
)

// Metrics holds the Prometheus metrics of a loader.
type Metrics struct {
	LoadsTotal         *prometheus.CounterVec
	LoadDuration       *prometheus.HistogramVec
	StatementsInserted prometheus.Counter
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics creates the loader metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphcache_loads_total",
				Help: "Total number of source loads by cache status",
			},
			[]string{"status"},
		),
		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphcache_load_duration_seconds",
				Help:    "Duration of source loads in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		StatementsInserted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "graphcache_statements_inserted_total",
				Help: "Total number of statements inserted by replaced graphs",
			},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphcache_load_errors_total",
				Help: "Total number of failed loads by error kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) observe(res Result, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if err != nil {
		m.ErrorsTotal.WithLabelValues(errorKind(err)).Inc()
	} else {
		status = statusLabel(res.Status)
		m.StatementsInserted.Add(float64(res.Inserted))
	}
	m.LoadsTotal.WithLabelValues(status).Inc()
	m.LoadDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func statusLabel(cs *rfc9211.CacheStatus) string {
	switch {
	case cs.IsHit():
		return "hit"
	case !cs.IsStored():
		return "validated"
	}
	return string(cs.FwdReason())
}

func errorKind(err error) string {
	var (
		loadErr    *LoadError
		storageErr *dataset.StorageError
		configErr  *dataset.ConfigurationError
	)
	switch {
	case errors.As(err, &loadErr):
		return "load"
	case errors.As(err, &storageErr):
		return "storage"
	case errors.As(err, &configErr):
		return "configuration"
	}
	return "other"
}
