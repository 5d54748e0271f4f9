package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

// Исходы отправки для метрик
const (
	OutcomeConfirmed = "confirmed"
	OutcomeDeclined  = "declined"
	OutcomeRejected  = "rejected"
	OutcomeTransient = "transient"
	OutcomeAmbiguous = "ambiguous"
	OutcomeNoQuote   = "quote_failed"
	OutcomeInternal  = "internal"
)

// Request модель запроса на отправку бронирования
type Request struct {
	UserID       int64  // ID пользователя
	PaymentToken string // токен платежного средства
}

// Response модель ответа с подтверждением
type Response struct {
	Confirmation domain.BookingConfirmation
	// LocallyCancelled бронирование было отменено в сессии, пока шла отправка.
	// Подтверждение все равно записано в историю.
	LocallyCancelled bool
	// Requoted цена была пересчитана перед оплатой
	Requoted bool
}

// Config параметры отправки
type Config struct {
	PaymentRetry retry.Policy // повторы при временных ошибках PaymentService
	// SubmitTimeout лимит на сверку цены и все попытки оплаты.
	// Отсчитывается от начала отправки, отключение клиента его не сокращает.
	SubmitTimeout time.Duration
}

// DefaultConfig конфигурация по умолчанию
func DefaultConfig() Config {
	p := retry.DefaultPolicy()
	p.MaxAttempts = domain.DefaultMaxPaymentAttempts
	return Config{PaymentRetry: p, SubmitTimeout: domain.DefaultSubmitTimeout}
}
