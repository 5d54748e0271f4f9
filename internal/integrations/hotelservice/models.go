package hotelservice

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// Room модель номера из HotelService
type Room struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxGuests   int     `json:"max_guests"`
	BaseRate    float64 `json:"base_rate"`
	Currency    string  `json:"currency"`
	Available   bool    `json:"available"`
}

// AvailabilityResponse ответ на запрос доступности
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Rooms     []Room `json:"rooms"`
}

// PriceItem налог или сбор
type PriceItem struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"` // tax | fee
}

// PricingResponse ответ на запрос цены
type PricingResponse struct {
	RoomID   string      `json:"room_id"`
	BaseRate float64     `json:"base_rate"`
	Nights   int         `json:"nights"`
	Taxes    []PriceItem `json:"taxes"`
	Fees     []PriceItem `json:"fees"`
	Total    float64     `json:"total"`
	Currency string      `json:"currency"`
}

// ErrorResponse модель ошибки от HotelService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует номер в доменную модель
func (r Room) ToDomain() domain.RoomOption {
	return domain.RoomOption{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		MaxGuests:   r.MaxGuests,
		BaseRate:    r.BaseRate,
		Currency:    r.Currency,
		Available:   r.Available,
	}
}

// ToDomain конвертирует ответ в снимок доступности
func (r *AvailabilityResponse) ToDomain(hotelID string, checkIn, checkOut, fetchedAt time.Time) *domain.AvailabilitySnapshot {
	rooms := make([]domain.RoomOption, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		rooms = append(rooms, room.ToDomain())
	}

	return &domain.AvailabilitySnapshot{
		HotelID:   hotelID,
		CheckIn:   domain.DateOnly(checkIn),
		CheckOut:  domain.DateOnly(checkOut),
		Available: r.Available,
		Rooms:     rooms,
		FetchedAt: fetchedAt,
	}
}

// ToDomain конвертирует ответ в расчет цены; налоги идут перед сборами
func (r *PricingResponse) ToDomain(checkIn, checkOut, quotedAt time.Time) *domain.PricingDetails {
	items := make([]domain.PriceItem, 0, len(r.Taxes)+len(r.Fees))
	for _, tax := range r.Taxes {
		items = append(items, domain.PriceItem{Code: tax.Code, Label: tax.Label, Amount: tax.Amount, Kind: domain.PriceItemTax})
	}
	for _, fee := range r.Fees {
		items = append(items, domain.PriceItem{Code: fee.Code, Label: fee.Label, Amount: fee.Amount, Kind: domain.PriceItemFee})
	}

	return &domain.PricingDetails{
		RoomID:   r.RoomID,
		CheckIn:  domain.DateOnly(checkIn),
		CheckOut: domain.DateOnly(checkOut),
		BaseRate: r.BaseRate,
		Nights:   r.Nights,
		Items:    items,
		Total:    r.Total,
		Currency: r.Currency,
		QuotedAt: quotedAt,
	}
}
