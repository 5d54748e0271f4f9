package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// AvailabilityCache интерфейс кэша снимков доступности
type AvailabilityCache interface {
	Get(ctx context.Context, key string) (domain.AvailabilitySnapshot, bool)
	Put(ctx context.Context, key string, value domain.AvailabilitySnapshot, ttl time.Duration)
}

// HotelServiceClient интерфейс клиента для HotelService
type HotelServiceClient interface {
	GetAvailability(ctx context.Context, hotelID string, checkIn, checkOut time.Time) (*domain.AvailabilitySnapshot, error)
}

// MetricsRecorder интерфейс для учета вызовов внешних сервисов
type MetricsRecorder interface {
	Attempt(target, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
