package domain

import "strings"

// Имена полей гостя в ошибках валидации
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldSpecialRequests = "specialRequests"
)

// DraftGuestInfo данные гостя, собираемые по частям.
// nil означает, что поле еще не заполнено.
type DraftGuestInfo struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Phone           *string
	SpecialRequests *string
}

// Merge возвращает d с наложенными непустыми полями patch.
// Поля, отсутствующие в patch, сохраняют текущее значение.
func (d DraftGuestInfo) Merge(patch DraftGuestInfo) DraftGuestInfo {
	merged := d
	if patch.FirstName != nil {
		merged.FirstName = copyString(patch.FirstName)
	}
	if patch.LastName != nil {
		merged.LastName = copyString(patch.LastName)
	}
	if patch.Email != nil {
		merged.Email = copyString(patch.Email)
	}
	if patch.Phone != nil {
		merged.Phone = copyString(patch.Phone)
	}
	if patch.SpecialRequests != nil {
		merged.SpecialRequests = copyString(patch.SpecialRequests)
	}
	return merged
}

// Complete собирает GuestInfo из черновика.
// Возвращает *ValidationError с первым незаполненным обязательным полем.
func (d DraftGuestInfo) Complete() (GuestInfo, error) {
	if isBlank(d.FirstName) {
		return GuestInfo{}, NewValidationError(FieldFirstName, "is required")
	}
	if isBlank(d.Email) {
		return GuestInfo{}, NewValidationError(FieldEmail, "is required")
	}
	if !strings.Contains(*d.Email, "@") {
		return GuestInfo{}, NewValidationError(FieldEmail, "is not a valid address")
	}

	return GuestInfo{
		FirstName:       strings.TrimSpace(*d.FirstName),
		LastName:        valueOrEmpty(d.LastName),
		Email:           strings.TrimSpace(*d.Email),
		Phone:           valueOrEmpty(d.Phone),
		SpecialRequests: valueOrEmpty(d.SpecialRequests),
	}, nil
}

// GuestInfo полные данные гостя, обязательные при отправке
type GuestInfo struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	SpecialRequests string
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func copyString(s *string) *string {
	v := *s
	return &v
}
