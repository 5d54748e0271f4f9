package load_history

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// Request модель запроса на загрузку истории
type Request struct {
	UserID int64
}

// Response история пользователя, новые первыми
type Response struct {
	Bookings []domain.BookingConfirmation
	// Pending подтверждения из сессии, еще не сохраненные в БД
	Pending int
}
