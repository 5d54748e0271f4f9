package update_step

import (
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoActiveBooking    = "нет активного бронирования"
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

// Handle PUT /api/v1/booking/step
// Шаг выставляется без проверки предыдущих шагов: навигация в UI свободная.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking/step - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	machine := h.sessions.Get(userID).Machine
	if err := machine.UpdateStep(domain.BookingStep(req.Step)); err != nil {
		h.logger.Warn("PUT /booking/step - Step rejected: user_id=%d, step=%q: %v", userID, req.Step, err)
		handlers.RespondBookingError(w, err)
		return
	}

	current := machine.Current()
	if current == nil {
		handlers.RespondNotFound(w, msgNoActiveBooking)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromCurrentBooking(current))
}
