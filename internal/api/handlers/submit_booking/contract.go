package submit_booking

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	submitUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/submit_booking"
)

type SessionProvider interface {
	Get(userID int64) *session.Session
}

type BookingSubmitter interface {
	Execute(ctx context.Context, machine *bookingstate.Machine, ledger *history.Ledger, req *submitUC.Request) (*submitUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
