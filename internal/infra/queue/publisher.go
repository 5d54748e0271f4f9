package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

const metricsStage = "publish"

// Config параметры постановки задач
type Config struct {
	Queue     string
	MaxRetry  int
	Retention time.Duration // сколько хранить завершенную задачу (защита от дублей по TaskID)
}

// Publisher публикует события бронирования в очередь asynq
type Publisher struct {
	client  Enqueuer
	config  Config
	metrics MetricsRecorder
	logger  Logger
}

// NewPublisher создает новый публикатор
func NewPublisher(client Enqueuer, config Config, metrics MetricsRecorder, logger Logger) *Publisher {
	return &Publisher{
		client:  client,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// Publish ставит событие в очередь.
// Повторная публикация того же события (тип + ID бронирования) не создает новую задачу.
func (p *Publisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	task, err := NewEventTask(event)
	if err != nil {
		p.metrics.Event(metricsStage, "invalid")
		return err
	}

	opts := []asynq.Option{
		asynq.TaskID(taskID(event)),
		asynq.MaxRetry(p.config.MaxRetry),
	}
	if p.config.Queue != "" {
		opts = append(opts, asynq.Queue(p.config.Queue))
	}
	if p.config.Retention > 0 {
		opts = append(opts, asynq.Retention(p.config.Retention))
	}

	info, err := p.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		p.metrics.Event(metricsStage, "duplicate")
		p.logger.Warn("Publish: %s for booking id=%s already enqueued", task.Type(), event.Confirmation.ID)
		return nil
	}
	if err != nil {
		p.metrics.Event(metricsStage, "failure")
		return fmt.Errorf("%w: %s: %v", ErrEnqueue, task.Type(), err)
	}

	p.metrics.Event(metricsStage, "success")
	p.logger.Info("Publish: %s for booking id=%s enqueued as task=%s in queue=%s",
		task.Type(), event.Confirmation.ID, info.ID, info.Queue)
	return nil
}

func taskID(event domain.BookingEvent) string {
	return string(event.Type) + ":" + event.Confirmation.ID
}

// InlinePublisher обрабатывает событие сразу, без очереди (очередь отключена в конфиге)
type InlinePublisher struct {
	handler EventHandler
	metrics MetricsRecorder
	logger  Logger
}

// NewInlinePublisher создает публикатор без очереди
func NewInlinePublisher(handler EventHandler, metrics MetricsRecorder, logger Logger) *InlinePublisher {
	return &InlinePublisher{
		handler: handler,
		metrics: metrics,
		logger:  logger,
	}
}

// Publish вызывает обработчик синхронно
func (p *InlinePublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	if _, err := TaskType(event.Type); err != nil {
		p.metrics.Event(metricsStage, "invalid")
		return err
	}

	if err := p.handler.Handle(ctx, event); err != nil {
		p.metrics.Event(metricsStage, "failure")
		return err
	}

	p.metrics.Event(metricsStage, "success")
	return nil
}
