package update_guest_info

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// UpdateGuestInfoRequest HTTP request model.
// Отсутствующие поля не меняются, пустая строка очищает поле.
type UpdateGuestInfoRequest struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// ToDomain конвертирует HTTP request в патч данных гостя
func (r *UpdateGuestInfoRequest) ToDomain() domain.DraftGuestInfo {
	return domain.DraftGuestInfo{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		SpecialRequests: r.SpecialRequests,
	}
}
