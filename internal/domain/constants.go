package domain

import "time"

// Время жизни записей кэша по умолчанию.
// Цена меняется чаще доступности, поэтому живет меньше.
const (
	DefaultAvailabilityTTL = 4 * time.Minute
	DefaultPricingTTL      = 90 * time.Second
)

// Лимиты отправки и запросов к внешним сервисам
const (
	DefaultMaxLookupAttempts  = 3
	DefaultMaxPaymentAttempts = 3
	MaxStaleRefetch           = 3
	DefaultSubmitTimeout      = time.Minute
)

// Константы бизнес-валидации
const (
	MaxStayNights               = 30
	MaxSpecialRequestsLength    = 500
	MaxCancellationReasonLength = 500
)

// Формат дат
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CancellableStatuses статусы, из которых оформленное бронирование можно отменить
var CancellableStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
