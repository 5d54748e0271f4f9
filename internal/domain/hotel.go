package domain

import "time"

// Hotel отель, в котором оформляется бронирование
type Hotel struct {
	ID       string
	Name     string
	City     string
	Currency string
}

// RoomOption тип номера из ответа на запрос доступности
type RoomOption struct {
	ID          string
	Name        string
	Description string
	MaxGuests   int
	BaseRate    float64 // цена за ночь без налогов и сборов
	Currency    string
	Available   bool
}

// AvailabilitySnapshot результат одного запроса доступности на диапазон дат
type AvailabilitySnapshot struct {
	HotelID   string
	CheckIn   time.Time
	CheckOut  time.Time
	Available bool
	Rooms     []RoomOption
	FetchedAt time.Time
}

// FindRoom ищет номер по ID в снимке
func (s *AvailabilitySnapshot) FindRoom(roomID string) (RoomOption, bool) {
	for _, room := range s.Rooms {
		if room.ID == roomID {
			return room, true
		}
	}
	return RoomOption{}, false
}

// Clone возвращает копию без общего слайса Rooms
func (s *AvailabilitySnapshot) Clone() *AvailabilitySnapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Rooms = append([]RoomOption(nil), s.Rooms...)
	return &c
}

// PriceItemKind отличает налоги от сборов в расчете цены
type PriceItemKind string

const (
	PriceItemTax PriceItemKind = "tax"
	PriceItemFee PriceItemKind = "fee"
)

// PriceItem отдельный налог или сбор
type PriceItem struct {
	Code   string
	Label  string
	Amount float64
	Kind   PriceItemKind
}

// PricingDetails расчет цены одного номера на диапазон дат
type PricingDetails struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	BaseRate float64
	Nights   int
	Items    []PriceItem
	Total    float64
	Currency string
	QuotedAt time.Time
}

// Clone возвращает копию без общего слайса Items
func (p *PricingDetails) Clone() *PricingDetails {
	if p == nil {
		return nil
	}
	c := *p
	c.Items = append([]PriceItem(nil), p.Items...)
	return &c
}

// Nights число ночей между датами (календарные дни, UTC)
func Nights(checkIn, checkOut time.Time) int {
	in := DateOnly(checkIn)
	out := DateOnly(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

// DateOnly обрезает t до полуночи UTC того же календарного дня
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
