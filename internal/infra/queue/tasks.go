package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// Типы задач asynq для исходящих событий бронирования
const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingCancelled = "booking:cancelled"
)

// TaskType возвращает тип задачи для события
func TaskType(eventType domain.BookingEventType) (string, error) {
	switch eventType {
	case domain.EventBookingConfirmed:
		return TypeBookingConfirmed, nil
	case domain.EventBookingCancelled:
		return TypeBookingCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, eventType)
	}
}

type priceItemPayload struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

type confirmationPayload struct {
	ID              string             `json:"id"`
	ReferenceNumber string             `json:"reference_number"`
	UserID          int64              `json:"user_id"`
	HotelID         string             `json:"hotel_id"`
	HotelName       string             `json:"hotel_name"`
	HotelCity       string             `json:"hotel_city,omitempty"`
	CheckIn         string             `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string             `json:"check_out"` // YYYY-MM-DD
	RoomID          string             `json:"room_id"`
	RoomName        string             `json:"room_name"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name,omitempty"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	SpecialRequests string             `json:"special_requests,omitempty"`
	BaseRate        float64            `json:"base_rate"`
	Nights          int                `json:"nights"`
	Items           []priceItemPayload `json:"items,omitempty"`
	Total           float64            `json:"total"`
	Currency        string             `json:"currency"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// EventPayload тело задачи
type EventPayload struct {
	Type             string              `json:"type"`
	Confirmation     confirmationPayload `json:"confirmation"`
	LocallyCancelled bool                `json:"locally_cancelled,omitempty"`
	Reason           string              `json:"reason,omitempty"`
	OccurredAt       time.Time           `json:"occurred_at"`
}

// NewEventTask собирает задачу asynq из события
func NewEventTask(event domain.BookingEvent) (*asynq.Task, error) {
	taskType, err := TaskType(event.Type)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(fromEvent(event))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodePayload, err)
	}

	return asynq.NewTask(taskType, data), nil
}

// DecodeEvent восстанавливает событие из тела задачи
func DecodeEvent(data []byte) (domain.BookingEvent, error) {
	var p EventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.BookingEvent{}, fmt.Errorf("%w: %v", ErrDecodePayload, err)
	}
	return p.toEvent()
}

func fromEvent(e domain.BookingEvent) EventPayload {
	c := e.Confirmation

	items := make([]priceItemPayload, 0, len(c.Pricing.Items))
	for _, item := range c.Pricing.Items {
		items = append(items, priceItemPayload{
			Code:   item.Code,
			Label:  item.Label,
			Amount: item.Amount,
			Kind:   string(item.Kind),
		})
	}

	return EventPayload{
		Type: string(e.Type),
		Confirmation: confirmationPayload{
			ID:              c.ID,
			ReferenceNumber: c.ReferenceNumber,
			UserID:          c.UserID,
			HotelID:         c.Hotel.ID,
			HotelName:       c.Hotel.Name,
			HotelCity:       c.Hotel.City,
			CheckIn:         c.CheckIn.UTC().Format(domain.DateFormat),
			CheckOut:        c.CheckOut.UTC().Format(domain.DateFormat),
			RoomID:          c.Room.ID,
			RoomName:        c.Room.Name,
			FirstName:       c.Guest.FirstName,
			LastName:        c.Guest.LastName,
			Email:           c.Guest.Email,
			Phone:           c.Guest.Phone,
			SpecialRequests: c.Guest.SpecialRequests,
			BaseRate:        c.Pricing.BaseRate,
			Nights:          c.Pricing.Nights,
			Items:           items,
			Total:           c.Pricing.Total,
			Currency:        c.Pricing.Currency,
			Status:          string(c.Status),
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
		},
		LocallyCancelled: e.LocallyCancelled,
		Reason:           e.Reason,
		OccurredAt:       e.OccurredAt,
	}
}

func (p EventPayload) toEvent() (domain.BookingEvent, error) {
	c := p.Confirmation

	checkIn, err := time.Parse(domain.DateFormat, c.CheckIn)
	if err != nil {
		return domain.BookingEvent{}, fmt.Errorf("%w: check_in: %v", ErrDecodePayload, err)
	}
	checkOut, err := time.Parse(domain.DateFormat, c.CheckOut)
	if err != nil {
		return domain.BookingEvent{}, fmt.Errorf("%w: check_out: %v", ErrDecodePayload, err)
	}

	var items []domain.PriceItem
	for _, item := range c.Items {
		items = append(items, domain.PriceItem{
			Code:   item.Code,
			Label:  item.Label,
			Amount: item.Amount,
			Kind:   domain.PriceItemKind(item.Kind),
		})
	}

	return domain.BookingEvent{
		Type: domain.BookingEventType(p.Type),
		Confirmation: domain.BookingConfirmation{
			ID:              c.ID,
			ReferenceNumber: c.ReferenceNumber,
			UserID:          c.UserID,
			Hotel:           domain.Hotel{ID: c.HotelID, Name: c.HotelName, City: c.HotelCity, Currency: c.Currency},
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Guest: domain.GuestInfo{
				FirstName:       c.FirstName,
				LastName:        c.LastName,
				Email:           c.Email,
				Phone:           c.Phone,
				SpecialRequests: c.SpecialRequests,
			},
			Room: domain.RoomOption{ID: c.RoomID, Name: c.RoomName, BaseRate: c.BaseRate, Currency: c.Currency},
			Pricing: domain.PricingDetails{
				RoomID:   c.RoomID,
				CheckIn:  checkIn,
				CheckOut: checkOut,
				BaseRate: c.BaseRate,
				Nights:   c.Nights,
				Items:    items,
				Total:    c.Total,
				Currency: c.Currency,
			},
			Status:    domain.BookingStatus(c.Status),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		LocallyCancelled: p.LocallyCancelled,
		Reason:           p.Reason,
		OccurredAt:       p.OccurredAt,
	}, nil
}
