package cancel_confirmed_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирования нет в истории пользователя
	ErrBookingNotFound = errors.New("cancel_confirmed_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("cancel_confirmed_booking: access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("cancel_confirmed_booking: booking cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_confirmed_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_confirmed_booking: internal error")
)
