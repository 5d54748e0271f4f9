package set_dates

import "github.com/m04kA/SMC-TravelBooking/internal/api/handlers"

// SetDatesRequest HTTP request model, даты в формате YYYY-MM-DD
type SetDatesRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// SetDatesResponse бронирование с прикрепленной доступностью
type SetDatesResponse struct {
	Booking   *handlers.BookingView `json:"booking"`
	FromCache bool                  `json:"fromCache"`
}
