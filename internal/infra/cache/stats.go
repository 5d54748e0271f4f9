package cache

import (
	"context"
	"time"
)

// StatsSource кэш, отдающий свои счетчики
type StatsSource interface {
	Name() string
	Stats(ctx context.Context) Stats
}

// HitRatio доля попаданий среди всех обращений; 0, если обращений не было
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ReportStats пишет в лог текущие счетчики каждого кэша и возвращает их по имени
func ReportStats(ctx context.Context, logger Logger, sources ...StatsSource) map[string]Stats {
	report := make(map[string]Stats, len(sources))
	for _, source := range sources {
		stats := source.Stats(ctx)
		report[source.Name()] = stats
		logger.Info("Cache stats: cache=%s, hits=%d, misses=%d, size=%d, hit_ratio=%.2f",
			source.Name(), stats.Hits, stats.Misses, stats.Size, stats.HitRatio())
	}
	return report
}

// RunStatsReporter периодически вызывает ReportStats, пока не отменен ctx.
// Для redis-кэша это же обновляет gauge размера, который иначе не считается.
func RunStatsReporter(ctx context.Context, interval time.Duration, logger Logger, sources ...StatsSource) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ReportStats(ctx, logger, sources...)
		}
	}
}
