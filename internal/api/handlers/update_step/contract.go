package update_step

import "github.com/m04kA/SMC-TravelBooking/internal/session"

type SessionProvider interface {
	Get(userID int64) *session.Session
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
