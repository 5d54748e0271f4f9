package start_booking

import (
	"strings"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// HotelRequest отель, для которого начинается бронирование
type HotelRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// StartBookingRequest HTTP request model
type StartBookingRequest struct {
	Hotel HotelRequest `json:"hotel"`
}

// ToDomain конвертирует HTTP request в доменный отель
func (r *StartBookingRequest) ToDomain() domain.Hotel {
	return domain.Hotel{
		ID:       strings.TrimSpace(r.Hotel.ID),
		Name:     strings.TrimSpace(r.Hotel.Name),
		City:     strings.TrimSpace(r.Hotel.City),
		Currency: strings.ToUpper(strings.TrimSpace(r.Hotel.Currency)),
	}
}
