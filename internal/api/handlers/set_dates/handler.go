package set_dates

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/check_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	sessions     SessionProvider
	availability AvailabilityChecker
	logger       Logger
}

func NewHandler(sessions SessionProvider, availability AvailabilityChecker, logger Logger) *Handler {
	return &Handler{
		sessions:     sessions,
		availability: availability,
		logger:       logger,
	}
}

// Handle PUT /api/v1/booking/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SetDatesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking/dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	checkIn, err := handlers.ParseDate(req.CheckIn)
	if err != nil {
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, bookingstate.FieldCheckIn)
		return
	}
	checkOut, err := handlers.ParseDate(req.CheckOut)
	if err != nil {
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, bookingstate.FieldCheckOut)
		return
	}

	machine := h.sessions.Get(userID).Machine

	// Смена дат сбрасывает номер и цену
	if err := machine.SetDates(checkIn, checkOut); err != nil {
		h.logger.Warn("PUT /booking/dates - Cannot set dates: user_id=%d, error=%v", userID, err)
		handlers.RespondBookingError(w, err)
		return
	}

	// Доступность на новые даты; ошибка запоминается в бронировании, даты остаются
	resp, err := h.availability.Execute(r.Context(), machine)
	if err != nil {
		if errors.Is(err, check_availability.ErrInvalidInput) {
			h.logger.Warn("PUT /booking/dates - Availability rejected: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		if !handlers.RespondBookingError(w, err) {
			h.logger.Error("PUT /booking/dates - Failed to check availability: user_id=%d, error=%v", userID, err)
		}
		return
	}

	h.logger.Info("PUT /booking/dates - Dates set: user_id=%d, %s..%s, rooms=%d, from_cache=%t",
		userID, req.CheckIn, req.CheckOut, len(resp.Snapshot.Rooms), resp.FromCache)
	handlers.RespondJSON(w, http.StatusOK, SetDatesResponse{
		Booking:   handlers.FromCurrentBooking(machine.Current()),
		FromCache: resp.FromCache,
	})
}
