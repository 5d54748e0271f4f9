package get_history

import "github.com/m04kA/SMC-TravelBooking/internal/api/handlers"

// HistoryResponse история бронирований, новые первыми.
// Partial выставлен, если загрузить историю из БД не удалось и отдана только история сессии.
type HistoryResponse struct {
	Bookings []handlers.ConfirmationView `json:"bookings"`
	Partial  bool                        `json:"partial"`
}
