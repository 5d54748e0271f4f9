package select_room

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/check_availability"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/quote_price"
)

// AvailabilityChecker интерфейс проверки доступности для текущих дат
type AvailabilityChecker interface {
	Execute(ctx context.Context, machine *bookingstate.Machine) (*check_availability.Response, error)
}

// PriceQuoter интерфейс расчета цены для выбранного номера
type PriceQuoter interface {
	Execute(ctx context.Context, machine *bookingstate.Machine) (*quote_price.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
