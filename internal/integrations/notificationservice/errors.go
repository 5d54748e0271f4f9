package notificationservice

import "errors"

var (
	// ErrInvalidRequest возвращается, когда сервис отклонил уведомление
	ErrInvalidRequest = errors.New("notificationservice client: invalid request")

	// ErrUnavailable возвращается при сетевой ошибке, таймауте или 5xx
	ErrUnavailable = errors.New("notificationservice client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notificationservice client: internal error")
)
