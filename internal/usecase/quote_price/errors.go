package quote_price

import "errors"

var (
	// ErrInvalidInput возвращается, когда HotelService отклонил параметры запроса
	ErrInvalidInput = errors.New("quote_price: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quote_price: internal error")
)
