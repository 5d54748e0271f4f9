package domain

import "time"

// BookingStep шаг оформления бронирования
type BookingStep string

const (
	StepDates      BookingStep = "dates"
	StepRooms      BookingStep = "rooms"
	StepGuestInfo  BookingStep = "guest-info"
	StepPayment    BookingStep = "payment"
	StepProcessing BookingStep = "processing"
)

// Steps шаги оформления в порядке прохождения
var Steps = []BookingStep{
	StepDates,
	StepRooms,
	StepGuestInfo,
	StepPayment,
	StepProcessing,
}

// Order возвращает позицию шага в потоке или -1 для неизвестного шага
func (s BookingStep) Order() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid проверяет, что шаг известен
func (s BookingStep) Valid() bool {
	return s.Order() >= 0
}

// CurrentBooking единственное незавершенное бронирование сессии
type CurrentBooking struct {
	InstanceID   string
	Hotel        Hotel
	Step         BookingStep
	CheckIn      *time.Time
	CheckOut     *time.Time
	SelectedRoom *RoomOption
	Guest        DraftGuestInfo
	Availability *AvailabilitySnapshot
	Pricing      *PricingDetails
	StartedAt    time.Time
	UpdatedAt    time.Time
}

// HasDates проверяет, что заданы даты заезда и выезда
func (b *CurrentBooking) HasDates() bool {
	return b.CheckIn != nil && b.CheckOut != nil
}

// IsProcessing проверяет, что отправка еще идет
func (b *CurrentBooking) IsProcessing() bool {
	return b.Step == StepProcessing
}

// Clone возвращает копию без общего изменяемого состояния с b
func (b *CurrentBooking) Clone() *CurrentBooking {
	if b == nil {
		return nil
	}
	c := *b
	if b.CheckIn != nil {
		in := *b.CheckIn
		c.CheckIn = &in
	}
	if b.CheckOut != nil {
		out := *b.CheckOut
		c.CheckOut = &out
	}
	if b.SelectedRoom != nil {
		room := *b.SelectedRoom
		c.SelectedRoom = &room
	}
	c.Guest = DraftGuestInfo{}.Merge(b.Guest)
	c.Availability = b.Availability.Clone()
	c.Pricing = b.Pricing.Clone()
	return &c
}

// BookingDraft неизменяемые данные, которые уходят в PaymentService
type BookingDraft struct {
	InstanceID     string
	UserID         int64
	Hotel          Hotel
	CheckIn        time.Time
	CheckOut       time.Time
	Room           RoomOption
	Guest          GuestInfo
	Pricing        *PricingDetails
	PaymentToken   string
	IdempotencyKey string
}

// BookingStatus статус оформленного бронирования
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid проверяет, что статус известен
func (s BookingStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusPending || s == StatusCancelled
}

// BookingConfirmation оформленное бронирование в том виде, как оно лежит в истории
type BookingConfirmation struct {
	ID              string
	ReferenceNumber string
	UserID          int64
	Hotel           Hotel
	CheckIn         time.Time
	CheckOut        time.Time
	Guest           GuestInfo
	Room            RoomOption
	Pricing         PricingDetails
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDefinitive проверяет, что подтверждение однозначно описывает бронирование с известным исходом
func (c *BookingConfirmation) IsDefinitive() bool {
	return c.ID != "" && c.ReferenceNumber != "" &&
		(c.Status == StatusConfirmed || c.Status == StatusPending)
}

// CanBeCancelled проверяет, можно ли отменить бронирование
func (c *BookingConfirmation) CanBeCancelled() bool {
	return c.Status == StatusPending || c.Status == StatusConfirmed
}

// IsCancelled проверяет, отменено ли бронирование
func (c *BookingConfirmation) IsCancelled() bool {
	return c.Status == StatusCancelled
}

// Clone возвращает глубокую копию подтверждения
func (c BookingConfirmation) Clone() BookingConfirmation {
	c.Pricing.Items = append([]PriceItem(nil), c.Pricing.Items...)
	return c
}

// BookingEventType тип исходящего события бронирования
type BookingEventType string

const (
	EventBookingConfirmed BookingEventType = "booking.confirmed"
	EventBookingCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent публикуется после обновления истории
type BookingEvent struct {
	Type         BookingEventType
	Confirmation BookingConfirmation
	// LocallyCancelled сессия отменила бронирование, пока шла отправка
	LocallyCancelled bool
	Reason           string
	OccurredAt       time.Time
}
