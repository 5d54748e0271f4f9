package get_history

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
)

type SessionProvider interface {
	Get(userID int64) *session.Session
}

type HistoryLoader interface {
	Execute(ctx context.Context, req *load_history.Request, ledger *history.Ledger) (*load_history.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
