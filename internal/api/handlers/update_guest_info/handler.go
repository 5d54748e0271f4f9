package update_guest_info

import (
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	sessions SessionProvider
	logger   Logger
}

func NewHandler(sessions SessionProvider, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/booking/guest
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateGuestInfoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /booking/guest - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	machine := h.sessions.Get(userID).Machine
	if err := machine.SetGuestInfo(req.ToDomain()); err != nil {
		h.logger.Warn("PATCH /booking/guest - Cannot update guest info: user_id=%d, error=%v", userID, err)
		handlers.RespondBookingError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromCurrentBooking(machine.Current()))
}
