package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch размер пачки SCAN при подсчете размера
const scanBatch = 100

// RedisStore TTL-кэш в Redis для нескольких инстансов сервиса.
// Значения хранятся в JSON под префиксом, истечение делегировано Redis (SET PX).
// Ошибки Redis не пробрасываются: они логируются и считаются промахом.
type RedisStore[V any] struct {
	name     string
	prefix   string
	client   *redis.Client
	hits     atomic.Uint64
	misses   atomic.Uint64
	recorder Recorder
	logger   Logger
}

// NewRedisStore создает хранилище; ключи пишутся как prefix + key
func NewRedisStore[V any](name string, client *redis.Client, prefix string, logger Logger, opts ...Option) *RedisStore[V] {
	o := buildOptions(opts)
	return &RedisStore[V]{
		name:     name,
		prefix:   prefix,
		client:   client,
		recorder: o.recorder,
		logger:   logger,
	}
}

// Name имя кэша
func (s *RedisStore[V]) Name() string {
	return s.name
}

// Get возвращает значение, если ключ существует в Redis и успешно декодируется
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("RedisStore.Get: cache=%s, key=%s: %v", s.name, key, err)
		}
		s.miss()
		return zero, false
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("RedisStore.Get: cache=%s, key=%s: failed to decode value: %v", s.name, key, err)
		s.miss()
		return zero, false
	}

	s.hits.Add(1)
	s.recorder.CacheHit(s.name)
	return value, true
}

// Put сохраняет значение с TTL; ttl <= 0 означает немедленное истечение (запись удаляется)
func (s *RedisStore[V]) Put(ctx context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		s.Delete(ctx, key)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("RedisStore.Put: cache=%s, key=%s: failed to encode value: %v", s.name, key, err)
		return
	}

	if err := s.client.Set(ctx, s.prefix+key, string(data), ttl).Err(); err != nil {
		s.logger.Warn("RedisStore.Put: cache=%s, key=%s: %v", s.name, key, err)
	}
}

// Delete удаляет ключ
func (s *RedisStore[V]) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Warn("RedisStore.Delete: cache=%s, key=%s: %v", s.name, key, err)
	}
}

// Stats счетчики этого инстанса; Size считается через SCAN по префиксу
func (s *RedisStore[V]) Stats(ctx context.Context) Stats {
	size := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("RedisStore.Stats: cache=%s: %v", s.name, err)
	}
	s.recorder.CacheEntries(s.name, size)

	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   size,
	}
}

func (s *RedisStore[V]) miss() {
	s.misses.Add(1)
	s.recorder.CacheMiss(s.name)
}
