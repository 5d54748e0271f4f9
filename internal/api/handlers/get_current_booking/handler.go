package get_current_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

const msgUnauthorized = "пользователь не определен"

type Handler struct {
	sessions SessionProvider
}

func NewHandler(sessions SessionProvider) *Handler {
	return &Handler{sessions: sessions}
}

// Handle GET /api/v1/booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	machine := h.sessions.Get(userID).Machine

	resp := CurrentBookingResponse{
		Booking: handlers.FromCurrentBooking(machine.Current()),
	}
	if err := machine.Err(); err != nil {
		_, message, _ := handlers.ErrorMessage(err)
		resp.Error = &handlers.ErrorResponse{Error: message}
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			resp.Error.Field = vErr.Field
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
