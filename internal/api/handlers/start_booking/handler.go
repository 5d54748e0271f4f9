package start_booking

import (
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgHotelRequired      = "не указан отель"
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

// Handle POST /api/v1/booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req StartBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hotel := req.ToDomain()
	if hotel.ID == "" {
		handlers.RespondBadRequest(w, msgHotelRequired)
		return
	}

	// Предыдущее незавершенное бронирование отбрасывается
	booking := h.sessions.Get(userID).Machine.StartBooking(hotel)

	h.logger.Info("POST /booking - Booking started: user_id=%d, hotel_id=%s, instance=%s",
		userID, hotel.ID, booking.InstanceID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromCurrentBooking(booking))
}
