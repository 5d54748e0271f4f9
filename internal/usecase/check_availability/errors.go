package check_availability

import "errors"

var (
	// ErrInvalidInput возвращается, когда HotelService отклонил параметры запроса
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
