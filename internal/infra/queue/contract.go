package queue

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// Enqueuer интерфейс постановки задач (реализуется *asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EventHandler обработчик события (для публикации без очереди)
type EventHandler interface {
	Handle(ctx context.Context, event domain.BookingEvent) error
}

// MetricsRecorder интерфейс для учета исходящих событий
type MetricsRecorder interface {
	Event(stage, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
