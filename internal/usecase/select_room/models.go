package select_room

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// Request модель запроса на выбор номера
type Request struct {
	RoomID string
}

// Response выбранный номер и его цена
type Response struct {
	Room    domain.RoomOption
	Pricing domain.PricingDetails
}
