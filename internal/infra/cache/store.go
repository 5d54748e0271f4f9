package cache

import (
	"context"
	"sync"
	"time"
)

// Store in-memory TTL-кэш, общий для всех сессий процесса.
// Сам ничего не запрашивает: на промахе вызывающий делает lookup и кладет результат через Put.
type Store[V any] struct {
	name     string
	mu       sync.Mutex
	entries  map[string]Entry[V]
	hits     uint64
	misses   uint64
	clock    TimeProvider
	recorder Recorder
}

// NewStore создает пустое хранилище; name используется в метриках и логах
func NewStore[V any](name string, opts ...Option) *Store[V] {
	o := buildOptions(opts)
	return &Store[V]{
		name:     name,
		entries:  make(map[string]Entry[V]),
		clock:    o.clock,
		recorder: o.recorder,
	}
}

// Name имя кэша
func (s *Store[V]) Name() string {
	return s.name
}

// Get возвращает значение только для существующей и не истекшей записи.
// Истекшая запись удаляется и считается промахом.
func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	entry, ok := s.entries[key]
	if !ok {
		s.miss()
		return zero, false
	}

	if !entry.Valid(s.clock.Now()) {
		delete(s.entries, key)
		s.recorder.CacheEntries(s.name, len(s.entries))
		s.miss()
		return zero, false
	}

	s.hits++
	s.recorder.CacheHit(s.name)
	return entry.Value, true
}

// Put сохраняет значение с ExpiresAt = now + ttl, перезаписывая существующую запись
func (s *Store[V]) Put(_ context.Context, key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.entries[key] = Entry[V]{
		Key:       key,
		Value:     value,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	s.recorder.CacheEntries(s.name, len(s.entries))
}

// Lookup возвращает запись целиком (включая время истечения), если она действительна.
// Не влияет на счетчики.
func (s *Store[V]) Lookup(key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.Valid(s.clock.Now()) {
		return Entry[V]{}, false
	}
	return entry, true
}

// Delete удаляет запись
func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.recorder.CacheEntries(s.name, len(s.entries))
}

// Stats возвращает счетчики попаданий/промахов и текущий размер
func (s *Store[V]) Stats(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Hits:   s.hits,
		Misses: s.misses,
		Size:   len(s.entries),
	}
}

// Prune удаляет все истекшие записи и возвращает их количество
func (s *Store[V]) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for key, entry := range s.entries {
		if !entry.Valid(now) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		s.recorder.CacheEntries(s.name, len(s.entries))
	}
	return removed
}

// RunJanitor периодически чистит истекшие записи, пока не отменен ctx
func (s *Store[V]) RunJanitor(ctx context.Context, interval time.Duration, logger Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Cache janitor started: cache=%s, interval=%s", s.name, interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cache janitor stopped: cache=%s", s.name)
			return
		case <-ticker.C:
			if removed := s.Prune(); removed > 0 {
				logger.Info("Cache janitor: cache=%s, evicted %d expired entries", s.name, removed)
			}
		}
	}
}

func (s *Store[V]) miss() {
	s.misses++
	s.recorder.CacheMiss(s.name)
}
