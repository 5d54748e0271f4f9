package cache

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// keySeparator разделитель частей ключа
const keySeparator = "|"

// AvailabilityKey ключ доступности: hotelId|YYYY-MM-DD|YYYY-MM-DD
func AvailabilityKey(hotelID string, checkIn, checkOut time.Time) string {
	return strings.Join([]string{
		hotelID,
		isoDate(checkIn),
		isoDate(checkOut),
	}, keySeparator)
}

// PricingKey ключ цены: ключ доступности + |roomId
func PricingKey(hotelID, roomID string, checkIn, checkOut time.Time) string {
	return AvailabilityKey(hotelID, checkIn, checkOut) + keySeparator + roomID
}

// isoDate дата в ISO-формате по календарной дате в UTC
func isoDate(t time.Time) string {
	return domain.DateOnly(t.UTC()).Format(domain.DateFormat)
}
