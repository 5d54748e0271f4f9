package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	notificationClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/notificationservice"
)

var (
	// ErrPersist возвращается, когда подтверждение не удалось сохранить (задача будет повторена)
	ErrPersist = errors.New("notifications: failed to persist booking")

	// ErrNotify возвращается при временной ошибке NotificationService (задача будет повторена)
	ErrNotify = errors.New("notifications: failed to send notification")

	// ErrUnknownEvent возвращается для события неизвестного типа (без повторов)
	ErrUnknownEvent = errors.New("notifications: unknown event type")
)

// Processor обрабатывает исходящие события бронирования:
// сохраняет подтверждения в историю и отправляет уведомления гостю
type Processor struct {
	historyRepo HistoryRepository
	notifier    NotificationClient
	metrics     MetricsRecorder
	logger      Logger
}

// NewProcessor создает новый обработчик событий
func NewProcessor(historyRepo HistoryRepository, notifier NotificationClient, metrics MetricsRecorder, logger Logger) *Processor {
	return &Processor{
		historyRepo: historyRepo,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle обрабатывает одно событие. Повторная обработка безопасна.
func (p *Processor) Handle(ctx context.Context, event domain.BookingEvent) error {
	c := event.Confirmation
	p.logger.Info("HandleEvent: %s for booking id=%s, user=%d", event.Type, c.ID, c.UserID)

	var template string
	switch event.Type {
	case domain.EventBookingConfirmed:
		template = notificationClient.TemplateBookingConfirmed

		// 1. Сохранение подтверждения (повтор той же задачи ничего не меняет)
		inserted, err := p.historyRepo.Create(ctx, c)
		if err != nil {
			p.metrics.Event("persist", "failure")
			p.logger.Error("HandleEvent: failed to persist booking id=%s: %v", c.ID, err)
			return fmt.Errorf("%w: booking id=%s: %v", ErrPersist, c.ID, err)
		}
		if inserted {
			p.metrics.Event("persist", "success")
		} else {
			p.metrics.Event("persist", "duplicate")
			p.logger.Info("HandleEvent: booking id=%s already persisted", c.ID)
		}
	case domain.EventBookingCancelled:
		template = notificationClient.TemplateBookingCancelled
	default:
		p.metrics.Event("notify", "invalid")
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}

	// 2. Уведомление гостя
	err := p.notifier.SendBookingNotification(ctx, notificationClient.FromConfirmation(template, c))
	switch {
	case err == nil:
		p.metrics.Event("notify", "success")
	case errors.Is(err, notificationClient.ErrInvalidRequest):
		// сервис отклонил уведомление; повтор не поможет
		p.metrics.Event("notify", "rejected")
		p.logger.Warn("HandleEvent: notification for booking id=%s rejected: %v", c.ID, err)
	default:
		p.metrics.Event("notify", "failure")
		p.logger.Error("HandleEvent: failed to notify about booking id=%s: %v", c.ID, err)
		return fmt.Errorf("%w: booking id=%s: %v", ErrNotify, c.ID, err)
	}

	p.logger.Info("HandleEvent: %s for booking id=%s processed", event.Type, c.ID)
	return nil
}
