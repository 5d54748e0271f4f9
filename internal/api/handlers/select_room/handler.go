package select_room

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	selectRoomUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/select_room"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRoomRequired       = "не указан номер"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	sessions SessionProvider
	selector RoomSelector
	logger   Logger
}

func NewHandler(sessions SessionProvider, selector RoomSelector, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		selector: selector,
		logger:   logger,
	}
}

// Handle PUT /api/v1/booking/room
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SelectRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking/room - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.roomID() == "" {
		handlers.RespondFieldError(w, http.StatusBadRequest, msgRoomRequired, bookingstate.FieldRoom)
		return
	}

	machine := h.sessions.Get(userID).Machine

	resp, err := h.selector.Execute(r.Context(), machine, &selectRoomUC.Request{RoomID: req.roomID()})
	if err != nil {
		if errors.Is(err, selectRoomUC.ErrInvalidInput) {
			handlers.RespondFieldError(w, http.StatusBadRequest, msgRoomRequired, bookingstate.FieldRoom)
			return
		}
		if !handlers.RespondBookingError(w, err) {
			h.logger.Error("PUT /booking/room - Failed to select room: user_id=%d, room_id=%s, error=%v",
				userID, req.roomID(), err)
			return
		}
		h.logger.Warn("PUT /booking/room - Cannot select room: user_id=%d, room_id=%s, error=%v",
			userID, req.roomID(), err)
		return
	}

	h.logger.Info("PUT /booking/room - Room selected: user_id=%d, room_id=%s, total=%.2f %s",
		userID, resp.Room.ID, resp.Pricing.Total, resp.Pricing.Currency)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromCurrentBooking(machine.Current()))
}
