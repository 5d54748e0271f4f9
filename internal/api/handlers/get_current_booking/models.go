package get_current_booking

import "github.com/m04kA/SMC-TravelBooking/internal/api/handlers"

// CurrentBookingResponse текущее бронирование и последняя ошибка
type CurrentBookingResponse struct {
	Booking *handlers.BookingView   `json:"booking"`
	Error   *handlers.ErrorResponse `json:"error"`
}
