package get_current_booking

import "github.com/m04kA/SMC-TravelBooking/internal/session"

type SessionProvider interface {
	Get(userID int64) *session.Session
}
