package notificationservice

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// Шаблоны уведомлений
const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
)

// BookingNotification запрос на отправку уведомления о бронировании
type BookingNotification struct {
	Template        string  `json:"template"`
	UserID          int64   `json:"user_id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"first_name"`
	BookingID       string  `json:"booking_id"`
	ReferenceNumber string  `json:"reference_number"`
	HotelName       string  `json:"hotel_name"`
	RoomName        string  `json:"room_name"`
	CheckIn         string  `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string  `json:"check_out"` // YYYY-MM-DD
	Total           float64 `json:"total"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
}

// FromConfirmation собирает уведомление из подтверждения бронирования
func FromConfirmation(template string, c domain.BookingConfirmation) BookingNotification {
	return BookingNotification{
		Template:        template,
		UserID:          c.UserID,
		Email:           c.Guest.Email,
		FirstName:       c.Guest.FirstName,
		BookingID:       c.ID,
		ReferenceNumber: c.ReferenceNumber,
		HotelName:       c.Hotel.Name,
		RoomName:        c.Room.Name,
		CheckIn:         c.CheckIn.UTC().Format(domain.DateFormat),
		CheckOut:        c.CheckOut.UTC().Format(domain.DateFormat),
		Total:           c.Pricing.Total,
		Currency:        c.Pricing.Currency,
		Status:          string(c.Status),
	}
}
