package quote_price

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// PricingCache интерфейс кэша расчетов цены
type PricingCache interface {
	Get(ctx context.Context, key string) (domain.PricingDetails, bool)
	Put(ctx context.Context, key string, value domain.PricingDetails, ttl time.Duration)
}

// HotelServiceClient интерфейс клиента для HotelService
type HotelServiceClient interface {
	GetPricing(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time) (*domain.PricingDetails, error)
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
