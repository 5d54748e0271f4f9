package quote_price

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

// Config параметры расчета цены
type Config struct {
	TTL             time.Duration // время жизни расчета в кэше
	Retry           retry.Policy  // повторы при временных ошибках HotelService
	MaxStaleRefetch int           // сколько раз перезапрашивать, если номер или даты сменились во время запроса
}

// DefaultConfig конфигурация по умолчанию
func DefaultConfig() Config {
	return Config{
		TTL:             domain.DefaultPricingTTL,
		Retry:           retry.DefaultPolicy(),
		MaxStaleRefetch: domain.MaxStaleRefetch,
	}
}

// Request параметры расчета цены вне бронирования
type Request struct {
	HotelID  string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

// Response результат расчета цены
type Response struct {
	Pricing   domain.PricingDetails
	FromCache bool
}
