package paymentservice

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда платеж отклонен (402)
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrValidation возвращается, когда сервис отклонил данные бронирования (400, 422)
	ErrValidation = errors.New("paymentservice client: booking rejected")

	// ErrUnavailable возвращается при сетевой ошибке, таймауте, 409 (запрос с тем же ключом в обработке) или 5xx.
	// Повтор с тем же ключом идемпотентности безопасен.
	ErrUnavailable = errors.New("paymentservice client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
