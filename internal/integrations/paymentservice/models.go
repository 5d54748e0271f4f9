package paymentservice

import (
	"time"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// Guest данные гостя
type Guest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Room выбранный номер
type Room struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	MaxGuests   int     `json:"max_guests"`
	BaseRate    float64 `json:"base_rate"`
	Currency    string  `json:"currency"`
}

// PriceItem налог или сбор
type PriceItem struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

// Pricing расчет цены, под который списываются деньги
type Pricing struct {
	BaseRate float64     `json:"base_rate"`
	Nights   int         `json:"nights"`
	Items    []PriceItem `json:"items"`
	Total    float64     `json:"total"`
	Currency string      `json:"currency"`
}

// Hotel отель
type Hotel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// SubmitBookingRequest тело запроса на оформление бронирования
type SubmitBookingRequest struct {
	UserID       int64   `json:"user_id"`
	Hotel        Hotel   `json:"hotel"`
	CheckIn      string  `json:"check_in"`  // YYYY-MM-DD
	CheckOut     string  `json:"check_out"` // YYYY-MM-DD
	Room         Room    `json:"room"`
	Guest        Guest   `json:"guest"`
	Pricing      Pricing `json:"pricing"`
	PaymentToken string  `json:"payment_token"`
}

// ConfirmationResponse ответ сервиса на успешную отправку
type ConfirmationResponse struct {
	BookingID       string    `json:"booking_id"`
	ReferenceNumber string    `json:"reference_number"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// FromDraft собирает тело запроса из черновика бронирования
func FromDraft(draft domain.BookingDraft) SubmitBookingRequest {
	req := SubmitBookingRequest{
		UserID: draft.UserID,
		Hotel: Hotel{
			ID:       draft.Hotel.ID,
			Name:     draft.Hotel.Name,
			City:     draft.Hotel.City,
			Currency: draft.Hotel.Currency,
		},
		CheckIn:  draft.CheckIn.UTC().Format(domain.DateFormat),
		CheckOut: draft.CheckOut.UTC().Format(domain.DateFormat),
		Room: Room{
			ID:          draft.Room.ID,
			Name:        draft.Room.Name,
			Description: draft.Room.Description,
			MaxGuests:   draft.Room.MaxGuests,
			BaseRate:    draft.Room.BaseRate,
			Currency:    draft.Room.Currency,
		},
		Guest: Guest{
			FirstName:       draft.Guest.FirstName,
			LastName:        draft.Guest.LastName,
			Email:           draft.Guest.Email,
			Phone:           draft.Guest.Phone,
			SpecialRequests: draft.Guest.SpecialRequests,
		},
		PaymentToken: draft.PaymentToken,
	}

	if draft.Pricing != nil {
		items := make([]PriceItem, 0, len(draft.Pricing.Items))
		for _, item := range draft.Pricing.Items {
			items = append(items, PriceItem{Code: item.Code, Label: item.Label, Amount: item.Amount, Kind: string(item.Kind)})
		}
		req.Pricing = Pricing{
			BaseRate: draft.Pricing.BaseRate,
			Nights:   draft.Pricing.Nights,
			Items:    items,
			Total:    draft.Pricing.Total,
			Currency: draft.Pricing.Currency,
		}
	}

	return req
}

// ToDomain собирает подтверждение из ответа и черновика.
// Статус переносится как есть: проверку на окончательность делает вызывающий.
func (r *ConfirmationResponse) ToDomain(draft domain.BookingDraft, receivedAt time.Time) *domain.BookingConfirmation {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = receivedAt
	}

	var pricing domain.PricingDetails
	if draft.Pricing != nil {
		pricing = *draft.Pricing.Clone()
	}

	return &domain.BookingConfirmation{
		ID:              r.BookingID,
		ReferenceNumber: r.ReferenceNumber,
		UserID:          draft.UserID,
		Hotel:           draft.Hotel,
		CheckIn:         draft.CheckIn,
		CheckOut:        draft.CheckOut,
		Guest:           draft.Guest,
		Room:            draft.Room,
		Pricing:         pricing,
		Status:          domain.BookingStatus(r.Status),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}
