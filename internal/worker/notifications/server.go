package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-TravelBooking/internal/infra/queue"
)

// ServerConfig параметры сервера обработки очереди
type ServerConfig struct {
	Queue       string
	Concurrency int
}

// NewServeMux регистрирует обработчик на оба типа событий бронирования
func NewServeMux(processor *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	handler := TaskHandler(processor)
	mux.HandleFunc(queue.TypeBookingConfirmed, handler)
	mux.HandleFunc(queue.TypeBookingCancelled, handler)
	return mux
}

// TaskHandler разбирает задачу asynq и передает событие в processor.
// Задачи, которые невозможно обработать, не повторяются.
func TaskHandler(processor *Processor) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := queue.DecodeEvent(task.Payload())
		if err != nil {
			processor.logger.Error("HandleTask: invalid payload for task type=%s: %v", task.Type(), err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if err := processor.Handle(ctx, event); err != nil {
			if errors.Is(err, ErrUnknownEvent) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}

// NewServer создает сервер asynq для очереди событий
func NewServer(redisOpt asynq.RedisConnOpt, config ServerConfig, logger Logger) *asynq.Server {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	queues := map[string]int{"default": 1}
	if config.Queue != "" {
		queues = map[string]int{config.Queue: 1}
	}

	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warn("HandleTask: task type=%s failed (retry %d/%d): %v", task.Type(), retried, maxRetry, err)
		}),
		Logger: asynqLogger{logger: logger},
	})
}

// asynqLogger адаптер Logger под интерфейс логгера asynq
type asynqLogger struct {
	logger Logger
}

func (l asynqLogger) Debug(args ...interface{}) {}

func (l asynqLogger) Info(args ...interface{}) {
	l.logger.Info("asynq: %s", fmt.Sprint(args...))
}

func (l asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn("asynq: %s", fmt.Sprint(args...))
}

func (l asynqLogger) Error(args ...interface{}) {
	l.logger.Error("asynq: %s", fmt.Sprint(args...))
}

func (l asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error("asynq: fatal: %s", fmt.Sprint(args...))
}
