package check_availability

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

// Config параметры проверки доступности
type Config struct {
	TTL             time.Duration // время жизни снимка в кэше
	Retry           retry.Policy  // повторы при временных ошибках HotelService
	MaxStaleRefetch int           // сколько раз перезапрашивать, если даты сменились во время запроса
}

// DefaultConfig конфигурация по умолчанию
func DefaultConfig() Config {
	return Config{
		TTL:             domain.DefaultAvailabilityTTL,
		Retry:           retry.DefaultPolicy(),
		MaxStaleRefetch: domain.MaxStaleRefetch,
	}
}

// Response результат проверки доступности
type Response struct {
	Snapshot  domain.AvailabilitySnapshot
	FromCache bool // снимок взят из кэша без обращения к HotelService
}
