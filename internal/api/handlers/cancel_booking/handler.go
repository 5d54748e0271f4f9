package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/cancel_confirmed_booking"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	sessions  SessionProvider
	canceller BookingCanceller
	loader    HistoryLoader
	logger    Logger
}

func NewHandler(sessions SessionProvider, canceller BookingCanceller, loader HistoryLoader, logger Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		canceller: canceller,
		loader:    loader,
		logger:    logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Извлекаем bookingId из URL
	bookingID := strings.TrimSpace(mux.Vars(r)["bookingId"])
	if bookingID == "" {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Empty booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Декодируем body
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sess := h.sessions.Get(userID)

	// Бронирования прошлых сессий есть только в БД
	err := sess.Hydrate(r.Context(), false, func(ctx context.Context) error {
		_, err := h.loader.Execute(ctx, &load_history.Request{UserID: userID}, sess.Ledger)
		return err
	})
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Failed to load history: user_id=%d, error=%v", userID, err)
	}

	// Отменяем бронирование
	resp, err := h.canceller.Execute(r.Context(), req.ToUseCaseRequest(userID, bookingID), sess.Ledger)
	if err != nil {
		switch {
		case errors.Is(err, cancel_confirmed_booking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, cancel_confirmed_booking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancel_confirmed_booking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%s, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancel_confirmed_booking.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%s, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromConfirmation(resp.Confirmation))
}
