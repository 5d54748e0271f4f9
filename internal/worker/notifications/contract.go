package notifications

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/integrations/notificationservice"
)

// HistoryRepository интерфейс хранилища истории бронирований
type HistoryRepository interface {
	Create(ctx context.Context, c domain.BookingConfirmation) (bool, error)
}

// NotificationClient интерфейс клиента для NotificationService
type NotificationClient interface {
	SendBookingNotification(ctx context.Context, n notificationservice.BookingNotification) error
}

// MetricsRecorder интерфейс для учета обработки событий
type MetricsRecorder interface {
	Event(stage, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
