package cache

import "time"

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Recorder принимает счетчики кэша (реализуется pkg/metrics)
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	CacheEntries(cache string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Stats счетчики кэша
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Entry запись кэша
type Entry[V any] struct {
	Key       string
	Value     V
	CachedAt  time.Time
	ExpiresAt time.Time
}

// Valid запись действительна, пока now < ExpiresAt
func (e Entry[V]) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)          {}
func (nopRecorder) CacheMiss(string)         {}
func (nopRecorder) CacheEntries(string, int) {}

type options struct {
	clock    TimeProvider
	recorder Recorder
}

// Option настройка хранилища
type Option func(*options)

// WithClock подменяет источник времени
func WithClock(clock TimeProvider) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRecorder подключает метрики
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock:    &RealTimeProvider{},
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
