package get_booking

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	sessions SessionProvider
	loader   HistoryLoader
	logger   Logger
}

func NewHandler(sessions SessionProvider, loader HistoryLoader, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		loader:   loader,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	bookingID := strings.TrimSpace(mux.Vars(r)["bookingId"])
	if bookingID == "" {
		h.logger.Warn("GET /bookings/{id} - Empty booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	sess := h.sessions.Get(userID)

	// История прошлых сессий подгружается из БД один раз
	err := sess.Hydrate(r.Context(), false, func(ctx context.Context) error {
		_, err := h.loader.Execute(ctx, &load_history.Request{UserID: userID}, sess.Ledger)
		return err
	})
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Failed to load history: user_id=%d, error=%v", userID, err)
	}

	booking, found := sess.Ledger.Get(bookingID)
	if !found {
		h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%s", bookingID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	}
	if booking.UserID != 0 && booking.UserID != userID {
		h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%s, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromConfirmation(booking))
}
