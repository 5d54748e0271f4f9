package handlers

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// HotelView отель
type HotelView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// RoomView номер
type RoomView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	MaxGuests   int     `json:"maxGuests"`
	BaseRate    float64 `json:"baseRate"`
	Currency    string  `json:"currency"`
	Available   bool    `json:"available"`
}

// PriceItemView налог или сбор
type PriceItemView struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

// PricingView расчет цены
type PricingView struct {
	RoomID   string          `json:"roomId"`
	CheckIn  string          `json:"checkIn"`
	CheckOut string          `json:"checkOut"`
	BaseRate float64         `json:"baseRate"`
	Nights   int             `json:"nights"`
	Items    []PriceItemView `json:"items"`
	Total    float64         `json:"total"`
	Currency string          `json:"currency"`
}

// AvailabilityView снимок доступности
type AvailabilityView struct {
	CheckIn   string     `json:"checkIn"`
	CheckOut  string     `json:"checkOut"`
	Available bool       `json:"available"`
	Rooms     []RoomView `json:"rooms"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// GuestDraftView данные гостя, собранные на текущий момент
type GuestDraftView struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// GuestView данные гостя подтвержденного бронирования
type GuestView struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// BookingView текущее бронирование
type BookingView struct {
	InstanceID   string            `json:"instanceId"`
	Hotel        HotelView         `json:"hotel"`
	Step         string            `json:"step"`
	CheckIn      *string           `json:"checkIn,omitempty"`
	CheckOut     *string           `json:"checkOut,omitempty"`
	SelectedRoom *RoomView         `json:"selectedRoom,omitempty"`
	Guest        GuestDraftView    `json:"guest"`
	Availability *AvailabilityView `json:"availability,omitempty"`
	Pricing      *PricingView      `json:"pricing,omitempty"`
	StartedAt    time.Time         `json:"startedAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ConfirmationView подтвержденное бронирование из истории
type ConfirmationView struct {
	ID              string      `json:"id"`
	ReferenceNumber string      `json:"referenceNumber"`
	Hotel           HotelView   `json:"hotel"`
	CheckIn         string      `json:"checkIn"`
	CheckOut        string      `json:"checkOut"`
	Room            RoomView    `json:"room"`
	Guest           GuestView   `json:"guest"`
	Pricing         PricingView `json:"pricing"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func FromHotel(h domain.Hotel) HotelView {
	return HotelView{ID: h.ID, Name: h.Name, City: h.City, Currency: h.Currency}
}

func FromRoom(r domain.RoomOption) RoomView {
	return RoomView{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		MaxGuests:   r.MaxGuests,
		BaseRate:    r.BaseRate,
		Currency:    r.Currency,
		Available:   r.Available,
	}
}

func FromPricing(p domain.PricingDetails) PricingView {
	items := make([]PriceItemView, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, PriceItemView{Code: item.Code, Label: item.Label, Amount: item.Amount, Kind: string(item.Kind)})
	}
	return PricingView{
		RoomID:   p.RoomID,
		CheckIn:  formatDate(p.CheckIn),
		CheckOut: formatDate(p.CheckOut),
		BaseRate: p.BaseRate,
		Nights:   p.Nights,
		Items:    items,
		Total:    p.Total,
		Currency: p.Currency,
	}
}

func FromAvailability(s domain.AvailabilitySnapshot) AvailabilityView {
	rooms := make([]RoomView, 0, len(s.Rooms))
	for _, room := range s.Rooms {
		rooms = append(rooms, FromRoom(room))
	}
	return AvailabilityView{
		CheckIn:   formatDate(s.CheckIn),
		CheckOut:  formatDate(s.CheckOut),
		Available: s.Available,
		Rooms:     rooms,
		FetchedAt: s.FetchedAt,
	}
}

// FromCurrentBooking возвращает nil, если бронирования нет
func FromCurrentBooking(b *domain.CurrentBooking) *BookingView {
	if b == nil {
		return nil
	}

	view := &BookingView{
		InstanceID: b.InstanceID,
		Hotel:      FromHotel(b.Hotel),
		Step:       string(b.Step),
		Guest: GuestDraftView{
			FirstName:       b.Guest.FirstName,
			LastName:        b.Guest.LastName,
			Email:           b.Guest.Email,
			Phone:           b.Guest.Phone,
			SpecialRequests: b.Guest.SpecialRequests,
		},
		StartedAt: b.StartedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.CheckIn != nil {
		s := formatDate(*b.CheckIn)
		view.CheckIn = &s
	}
	if b.CheckOut != nil {
		s := formatDate(*b.CheckOut)
		view.CheckOut = &s
	}
	if b.SelectedRoom != nil {
		room := FromRoom(*b.SelectedRoom)
		view.SelectedRoom = &room
	}
	if b.Availability != nil {
		availability := FromAvailability(*b.Availability)
		view.Availability = &availability
	}
	if b.Pricing != nil {
		pricing := FromPricing(*b.Pricing)
		view.Pricing = &pricing
	}
	return view
}

func FromConfirmation(c domain.BookingConfirmation) ConfirmationView {
	return ConfirmationView{
		ID:              c.ID,
		ReferenceNumber: c.ReferenceNumber,
		Hotel:           FromHotel(c.Hotel),
		CheckIn:         formatDate(c.CheckIn),
		CheckOut:        formatDate(c.CheckOut),
		Room:            FromRoom(c.Room),
		Guest: GuestView{
			FirstName:       c.Guest.FirstName,
			LastName:        c.Guest.LastName,
			Email:           c.Guest.Email,
			Phone:           c.Guest.Phone,
			SpecialRequests: c.Guest.SpecialRequests,
		},
		Pricing:   FromPricing(c.Pricing),
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromConfirmations(cs []domain.BookingConfirmation) []ConfirmationView {
	views := make([]ConfirmationView, 0, len(cs))
	for _, c := range cs {
		views = append(views, FromConfirmation(c))
	}
	return views
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(domain.DateFormat)
}
