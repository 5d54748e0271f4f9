package set_dates

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/check_availability"
)

type SessionProvider interface {
	Get(userID int64) *session.Session
}

type AvailabilityChecker interface {
	Execute(ctx context.Context, machine *bookingstate.Machine) (*check_availability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
