package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/quote_price"
)

// PriceQuoter интерфейс получения актуальной цены (кэш или HotelService)
type PriceQuoter interface {
	Quote(ctx context.Context, req *quote_price.Request) (*quote_price.Response, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	SubmitBooking(ctx context.Context, draft domain.BookingDraft) (*domain.BookingConfirmation, error)
}

// EventPublisher интерфейс публикации исходящих событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// MetricsRecorder интерфейс для учета исходов отправки
type MetricsRecorder interface {
	Attempt(target, result string)
	Submission(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
