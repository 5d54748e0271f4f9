package select_room

import (
	"context"

	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	selectRoomUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/select_room"
)

type SessionProvider interface {
	Get(userID int64) *session.Session
}

type RoomSelector interface {
	Execute(ctx context.Context, machine *bookingstate.Machine, req *selectRoomUC.Request) (*selectRoomUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
