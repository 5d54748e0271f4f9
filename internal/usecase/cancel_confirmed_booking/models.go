package cancel_confirmed_booking

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// Request модель запроса на отмену подтвержденного бронирования
type Request struct {
	UserID    int64
	BookingID string
	Reason    string
}

// Response отмененное бронирование
type Response struct {
	Confirmation domain.BookingConfirmation
	// Touched количество записей ledger с этим ID
	Touched int
}
