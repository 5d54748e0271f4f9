package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics prometheus-коллекторы сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSize        *prometheus.GaugeVec

	SubmissionsTotal    *prometheus.CounterVec
	LookupAttemptsTotal *prometheus.CounterVec
	EventsTotal         *prometheus.CounterVec

	registerer prometheus.Registerer
}

// New регистрирует коллекторы в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует коллекторы в переданном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registerer: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route"}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_hits_total",
			Help:        "Cache hits by cache name",
			ConstLabels: labels,
		}, []string{"cache"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_misses_total",
			Help:        "Cache misses (absent or expired) by cache name",
			ConstLabels: labels,
		}, []string{"cache"}),
		CacheSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "cache_entries",
			Help:        "Number of entries held by the cache",
			ConstLabels: labels,
		}, []string{"cache"}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_submissions_total",
			Help:        "Booking submissions by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		LookupAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "collaborator_attempts_total",
			Help:        "Outbound collaborator calls by target and result",
			ConstLabels: labels,
		}, []string{"target", "result"}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_total",
			Help:        "Outbound booking events by stage and result",
			ConstLabels: labels,
		}, []string{"stage", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheSize,
		m.SubmissionsTotal,
		m.LookupAttemptsTotal,
		m.EventsTotal,
	)

	return m
}

// RegisterDBStats публикует статистику пула соединений (open, in_use, idle, wait)
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	return m.registerer.Register(collectors.NewDBStatsCollector(db, dbName))
}

// CacheHit implements cache.Recorder
func (m *Metrics) CacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// CacheMiss implements cache.Recorder
func (m *Metrics) CacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// CacheEntries implements cache.Recorder
func (m *Metrics) CacheEntries(cache string, n int) {
	m.CacheSize.WithLabelValues(cache).Set(float64(n))
}

// Submission считает исход отправки бронирования
func (m *Metrics) Submission(outcome string) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// Attempt считает вызов внешнего сервиса
func (m *Metrics) Attempt(target, result string) {
	m.LookupAttemptsTotal.WithLabelValues(target, result).Inc()
}

// Event считает обработку исходящего события
func (m *Metrics) Event(stage, result string) {
	m.EventsTotal.WithLabelValues(stage, result).Inc()
}
