package load_history

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// HistoryRepository интерфейс хранилища истории бронирований
type HistoryRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingConfirmation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
