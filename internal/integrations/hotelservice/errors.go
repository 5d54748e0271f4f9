package hotelservice

import "errors"

var (
	// ErrHotelNotFound возвращается, когда отель не найден
	ErrHotelNotFound = errors.New("hotel not found")

	// ErrRoomNotFound возвращается, когда номер не найден в отеле
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidRequest возвращается, когда сервис отклонил параметры запроса
	ErrInvalidRequest = errors.New("hotelservice client: invalid request")

	// ErrUnavailable возвращается при сетевой ошибке, таймауте или 5xx; запрос можно повторить
	ErrUnavailable = errors.New("hotelservice client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("hotelservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("hotelservice client: invalid response")
)
