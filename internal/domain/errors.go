package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation обязательные поля бронирования не заполнены или некорректны
	ErrValidation = errors.New("booking: validation failed")

	// ErrStaleQuote закэшированная цена или доступность не соответствует датам или номеру
	ErrStaleQuote = errors.New("booking: stale quote")

	// ErrTransientNetwork временная ошибка внешнего сервиса, запрос можно повторить
	ErrTransientNetwork = errors.New("booking: transient network error")

	// ErrPaymentDeclined PaymentService отклонил оплату
	ErrPaymentDeclined = errors.New("booking: payment declined")

	// ErrConcurrentSubmission отправка вызвана, пока предыдущая еще идет
	ErrConcurrentSubmission = errors.New("booking: submission already in progress")

	// ErrInvariantViolation операция вызвана в состоянии, которого корректный вызывающий не создает
	ErrInvariantViolation = errors.New("booking: invariant violation")

	// ErrNoActiveBooking нет незавершенного бронирования
	ErrNoActiveBooking = errors.New("booking: no active booking")

	// ErrAmbiguousOutcome результат отправки нельзя ни подтвердить, ни исключить
	ErrAmbiguousOutcome = errors.New("booking: ambiguous submission outcome")

	// ErrDatesRequired для запроса нужны даты заезда и выезда
	ErrDatesRequired = errors.New("booking: check-in and check-out dates are required")

	// ErrRoomRequired для расчета цены нужен выбранный номер
	ErrRoomRequired = errors.New("booking: room is not selected")

	// ErrHotelNotFound HotelService не знает такой отель
	ErrHotelNotFound = errors.New("booking: hotel not found")

	// ErrRoomNotFound номера нет в списке для отеля и дат
	ErrRoomNotFound = errors.New("booking: room not found")

	// ErrRoomUnavailable номер есть, но на эти даты недоступен
	ErrRoomUnavailable = errors.New("booking: room is not available for the selected dates")
)

// ValidationError ошибка валидации с именем поля
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError создает ошибку валидации для поля
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Is: errors.Is(err, ErrValidation) выполняется для любой *ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
