package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingRecorder struct {
	hits, misses int
	size         int
}

func (r *countingRecorder) CacheHit(string) { r.hits++ }

func (r *countingRecorder) CacheMiss(string) { r.misses++ }

func (r *countingRecorder) CacheEntries(_ string, n int) { r.size = n }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKeys(t *testing.T) {
	in := date(2024, 12, 20)
	out := date(2024, 12, 25)

	assert.Equal(t, "h1|2024-12-20|2024-12-25", AvailabilityKey("h1", in, out))
	assert.Equal(t, "h1|2024-12-20|2024-12-25|r1", PricingKey("h1", "r1", in, out))
}

func TestKeys_IgnoreTimeOfDayAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 12, 20, 2, 30, 0, 0, loc) // 2024-12-19 23:30 UTC
	out := date(2024, 12, 25).Add(15 * time.Hour)

	assert.Equal(t, "h1|2024-12-19|2024-12-25", AvailabilityKey("h1", in, out))
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore[string]("test", WithClock(newFakeClock()))

	store.Put(ctx, "k", "v", time.Minute)

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore[int]("test", WithClock(newFakeClock()))

	store.Put(ctx, "k", 1, time.Minute)
	store.Put(ctx, "k", 2, time.Minute)

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, store.Stats(ctx).Size)
}

func TestStore_ExpiredEntryIsMissAndEvicted(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewStore[domain.AvailabilitySnapshot]("availability", WithClock(clock))
	key := "h1|2024-12-20|2024-12-25"

	store.Put(ctx, key, domain.AvailabilitySnapshot{HotelID: "h1", Available: true}, time.Second)
	clock.Advance(2 * time.Second)

	_, ok := store.Get(ctx, key)
	assert.False(t, ok)

	stats := store.Stats(ctx)
	assert.Equal(t, 0, stats.Size, "expired entry must be evicted on access")
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(0), stats.Hits)
}

func TestStore_ExpiresExactlyAtDeadline(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewStore[string]("test", WithClock(clock))

	store.Put(ctx, "k", "v", time.Second)

	clock.Advance(time.Second - time.Nanosecond)
	_, ok := store.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Nanosecond)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok, "now == expiresAt is a miss")
}

func TestStore_ExpiresWithRealClock(t *testing.T) {
	ctx := context.Background()
	store := NewStore[string]("test")

	store.Put(ctx, "k", "v", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_StatsAndRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	store := NewStore[string]("test", WithClock(newFakeClock()), WithRecorder(rec))

	store.Put(ctx, "a", "1", time.Minute)
	store.Put(ctx, "b", "2", time.Minute)
	store.Get(ctx, "a")
	store.Get(ctx, "a")
	store.Get(ctx, "missing")

	stats := store.Stats(ctx)
	assert.Equal(t, Stats{Hits: 2, Misses: 1, Size: 2}, stats)
	assert.Equal(t, 2, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 2, rec.size)
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewStore[string]("test", WithClock(clock))

	store.Put(ctx, "short", "1", time.Second)
	store.Put(ctx, "long", "2", time.Hour)
	clock.Advance(time.Minute)

	assert.Equal(t, 1, store.Prune())
	assert.Equal(t, 1, store.Stats(ctx).Size)

	_, ok := store.Lookup("long")
	assert.True(t, ok)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewStore[string]("test", WithClock(newFakeClock()))

	store.Put(ctx, "k", "v", time.Minute)
	store.Delete(ctx, "k")

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore[int]("test")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(ctx, "k", i, time.Minute)
			store.Get(ctx, "k")
			store.Stats(ctx)
		}(i)
	}
	wg.Wait()

	stats := store.Stats(ctx)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(50), stats.Hits)
}
