// Package metrics provides Prometheus metrics for the georoute application.
package metrics

import (
	"database/sql"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// Geometry metrics
	PredicateEvaluations *prometheus.CounterVec
	PredicateDuration    *prometheus.HistogramVec
	DistanceCalls        *prometheus.CounterVec

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitSecondsTotal prometheus.Counter

	logger *slog.Logger

	// collectorStarted prevents spawning multiple collector goroutines
	collectorStarted atomic.Bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	predicateEvaluations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georoute_predicate_evaluations_total",
			Help: "Total number of shape predicate evaluations",
		},
		[]string{"shape", "predicate", "result"},
	)

	predicateDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "georoute_predicate_duration_seconds",
			Help:    "Shape predicate latency distribution",
			Buckets: []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 1e-1},
		},
		[]string{"shape", "predicate"},
	)

	distanceCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georoute_distance_calls_total",
			Help: "Total number of distance calculator calls",
		},
		[]string{"calc", "op"},
	)

	dbConnectionsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georoute_db_connections_open",
		Help: "Number of open database connections",
	})

	dbConnectionsInUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georoute_db_connections_in_use",
		Help: "Number of database connections currently in use",
	})

	dbConnectionsIdle := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georoute_db_connections_idle",
		Help: "Number of idle database connections",
	})

	dbWaitSecondsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georoute_db_wait_seconds_total",
		Help: "Total time blocked waiting for a database connection",
	})

	registry.MustRegister(
		predicateEvaluations,
		predicateDuration,
		distanceCalls,
		dbConnectionsOpen,
		dbConnectionsInUse,
		dbConnectionsIdle,
		dbWaitSecondsTotal,
	)

	return &Metrics{
		Registry:             registry,
		PredicateEvaluations: predicateEvaluations,
		PredicateDuration:    predicateDuration,
		DistanceCalls:        distanceCalls,
		DBConnectionsOpen:    dbConnectionsOpen,
		DBConnectionsInUse:   dbConnectionsInUse,
		DBConnectionsIdle:    dbConnectionsIdle,
		DBWaitSecondsTotal:   dbWaitSecondsTotal,
		logger:               logger,
	}
}

// ObservePredicate records one evaluation of a shape predicate.
func (m *Metrics) ObservePredicate(shape, predicate string, result bool, elapsed time.Duration) {
	m.PredicateEvaluations.WithLabelValues(shape, predicate, strconv.FormatBool(result)).Inc()
	m.PredicateDuration.WithLabelValues(shape, predicate).Observe(elapsed.Seconds())
}

// PoolStats is the part of *sql.DB the pool collector reads.
type PoolStats interface {
	Stats() sql.DBStats
}

// StartDBStatsCollector samples the fence store's connection pool right away
// and then every interval until Shutdown. Only the first call starts a collector.
func (m *Metrics) StartDBStatsCollector(pool PoolStats, interval time.Duration) {
	if pool == nil || !m.collectorStarted.CompareAndSwap(false, true) {
		return
	}

	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	lastWait := m.recordPoolStats(pool.Stats(), 0)

	go func() {
		defer close(m.done)
		defer func() {
			if r := recover(); r != nil && m.logger != nil {
				m.logger.Error("fence store stats collector stopped", "panic", r)
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				lastWait = m.recordPoolStats(pool.Stats(), lastWait)
			}
		}
	}()
}

// recordPoolStats copies one pool sample into the gauges. WaitDuration is
// cumulative in sql.DBStats, so only the growth since lastWait is added to
// the counter. It returns the new cumulative wait.
func (m *Metrics) recordPoolStats(stats sql.DBStats, lastWait time.Duration) time.Duration {
	m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
	m.DBConnectionsInUse.Set(float64(stats.InUse))
	m.DBConnectionsIdle.Set(float64(stats.Idle))
	if delta := stats.WaitDuration - lastWait; delta > 0 {
		m.DBWaitSecondsTotal.Add(delta.Seconds())
	}
	return stats.WaitDuration
}

// Shutdown stops the collector and waits for it to exit. It may be called
// any number of times, with or without a running collector.
func (m *Metrics) Shutdown() {
	if !m.collectorStarted.Load() {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}
