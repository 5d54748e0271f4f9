package discard_booking

import (
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
)

const msgUnauthorized = "пользователь не определен"

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

// Handle DELETE /api/v1/booking
// Отправка в процессе не прерывается: подтверждение все равно попадет в историю.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	machine := h.sessions.Get(userID).Machine
	if current := machine.Current(); current != nil && current.IsProcessing() {
		h.logger.Warn("DELETE /booking - Discarding booking with submission in flight: user_id=%d, instance=%s",
			userID, current.InstanceID)
	}
	machine.Cancel()

	h.logger.Info("DELETE /booking - Booking discarded: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
