package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

type capturingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *capturingLogger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *capturingLogger) Warn(string, ...interface{})  {}
func (l *capturingLogger) Error(string, ...interface{}) {}

func (l *capturingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.infos)
}

func TestStats_HitRatio(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.HitRatio())
	assert.InDelta(t, 0.75, Stats{Hits: 3, Misses: 1}.HitRatio(), 1e-9)
}

func TestReportStats_MemoryAndRedis(t *testing.T) {
	ctx := context.Background()
	mem := NewStore[string]("availability", WithClock(newFakeClock()))
	mem.Put(ctx, "a", "1", time.Minute)
	mem.Get(ctx, "a")
	mem.Get(ctx, "missing")

	db, mock := redismock.NewClientMock()
	rec := &countingRecorder{}
	redisStore := NewRedisStore[string]("pricing", db, testPrefix, logger.NewNop(), WithRecorder(rec))
	mock.ExpectScan(0, testPrefix+"*", scanBatch).SetVal([]string{testPrefix + "x"}, 0)

	log := &capturingLogger{}
	report := ReportStats(ctx, log, mem, redisStore)

	assert.Equal(t, Stats{Hits: 1, Misses: 1, Size: 1}, report["availability"])
	assert.Equal(t, Stats{Size: 1}, report["pricing"])
	assert.Equal(t, 1, rec.size, "redis size gauge is refreshed by the report")
	require.Len(t, log.infos, 2)
	assert.Contains(t, log.infos[0], "cache=availability, hits=1, misses=1, size=1, hit_ratio=0.50")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStatsReporter_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := &capturingLogger{}
	done := make(chan struct{})

	go func() {
		RunStatsReporter(ctx, time.Millisecond, log, NewStore[string]("availability"))
		close(done)
	}()

	assert.Eventually(t, func() bool { return log.count() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop after cancel")
	}
}
