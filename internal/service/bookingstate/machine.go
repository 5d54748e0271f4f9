package bookingstate

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// FieldPaymentToken имя поля платежного токена в ошибках валидации
const FieldPaymentToken = "paymentToken"

// Поля бронирования в ошибках валидации
const (
	FieldCheckIn  = "checkIn"
	FieldCheckOut = "checkOut"
	FieldRoom     = "room"
	FieldStep     = "step"
)

// Machine владеет единственным бронированием в процессе оформления одной сессии.
// Все операции сериализуются мьютексом; наружу отдаются только копии.
type Machine struct {
	mu           sync.Mutex
	current      *domain.CurrentBooking
	err          error
	timeProvider TimeProvider
}

// NewMachine создает машину без активного бронирования
func NewMachine() *Machine {
	return &Machine{timeProvider: &RealTimeProvider{}}
}

// NewMachineWithTimeProvider создает машину с заданным провайдером времени (для тестов)
func NewMachineWithTimeProvider(tp TimeProvider) *Machine {
	return &Machine{timeProvider: tp}
}

// StartBooking отбрасывает текущее бронирование без подтверждения и создает новое на шаге dates.
// Сбрасывает ранее выставленную ошибку.
func (m *Machine) StartBooking(hotel domain.Hotel) *domain.CurrentBooking {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.timeProvider.Now()
	m.current = &domain.CurrentBooking{
		InstanceID: uuid.NewString(),
		Hotel:      hotel,
		Step:       domain.StepDates,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	m.err = nil

	return m.current.Clone()
}

// UpdateStep выставляет шаг без проверки предыдущих шагов.
// Без активного бронирования ничего не делает.
// Шаг processing входит и выходит только через Submit и завершение отправки.
func (m *Machine) UpdateStep(step domain.BookingStep) error {
	if !step.Valid() {
		return domain.NewValidationError(FieldStep, fmt.Sprintf("unknown step %q", step))
	}
	if step == domain.StepProcessing {
		return fmt.Errorf("%w: UpdateStep - processing is entered only by Submit", domain.ErrInvariantViolation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	if m.current.IsProcessing() {
		return domain.ErrConcurrentSubmission
	}
	m.current.Step = step
	m.touch()
	return nil
}

// SetDates выставляет даты заезда и выезда и безусловно сбрасывает выбранный номер и цену
func (m *Machine) SetDates(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() {
		return domain.NewValidationError(FieldCheckIn, "is required")
	}
	if checkOut.IsZero() {
		return domain.NewValidationError(FieldCheckOut, "is required")
	}

	in := domain.DateOnly(checkIn)
	out := domain.DateOnly(checkOut)
	nights := domain.Nights(in, out)
	if nights <= 0 {
		return domain.NewValidationError(FieldCheckOut, "must be after check-in")
	}
	if nights > domain.MaxStayNights {
		return domain.NewValidationError(FieldCheckOut, fmt.Sprintf("stay cannot exceed %d nights", domain.MaxStayNights))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("%w: SetDates - no active booking", domain.ErrInvariantViolation)
	}

	m.current.CheckIn = &in
	m.current.CheckOut = &out
	m.current.SelectedRoom = nil
	m.current.Pricing = nil
	m.touch()
	return nil
}

// SelectRoom выставляет выбранный номер; требует бронирование с датами
func (m *Machine) SelectRoom(room domain.RoomOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("%w: SelectRoom - no active booking", domain.ErrInvariantViolation)
	}
	if !m.current.HasDates() {
		return fmt.Errorf("%w: SelectRoom - dates are not set", domain.ErrInvariantViolation)
	}

	m.current.SelectedRoom = &room
	m.touch()
	return nil
}

// SelectRoomFor выбирает номер из снимка доступности, только если снимок построен для текущих дат.
// Возвращает false, если даты сменились после получения снимка.
func (m *Machine) SelectRoomFor(snapshot domain.AvailabilitySnapshot, room domain.RoomOption) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false, domain.ErrNoActiveBooking
	}
	if !m.matches(snapshot.HotelID, snapshot.CheckIn, snapshot.CheckOut) {
		return false, nil
	}

	m.current.SelectedRoom = &room
	m.current.Availability = snapshot.Clone()
	m.touch()
	return true, nil
}

// SetGuestInfo сливает переданные поля в данные гостя; отсутствующие поля не меняются
func (m *Machine) SetGuestInfo(patch domain.DraftGuestInfo) error {
	if patch.SpecialRequests != nil && len(*patch.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return domain.NewValidationError(domain.FieldSpecialRequests,
			fmt.Sprintf("cannot exceed %d characters", domain.MaxSpecialRequestsLength))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("%w: SetGuestInfo - no active booking", domain.ErrInvariantViolation)
	}

	m.current.Guest = m.current.Guest.Merge(patch)
	m.touch()
	return nil
}

// SetAvailability прикрепляет снимок доступности.
// Соответствие снимка текущим датам проверяет вызывающий.
func (m *Machine) SetAvailability(snapshot domain.AvailabilitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("%w: SetAvailability - no active booking", domain.ErrInvariantViolation)
	}

	m.current.Availability = snapshot.Clone()
	m.touch()
	return nil
}

// SetPricing прикрепляет расчет цены.
// Соответствие расчета номеру и датам проверяет вызывающий.
func (m *Machine) SetPricing(pricing domain.PricingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return fmt.Errorf("%w: SetPricing - no active booking", domain.ErrInvariantViolation)
	}

	m.current.Pricing = pricing.Clone()
	m.touch()
	return nil
}

// AttachAvailability прикрепляет снимок, только если он построен для отеля и дат текущего бронирования.
// Сравнение и запись выполняются под одной блокировкой. Возвращает false, если даты уже сменились.
func (m *Machine) AttachAvailability(snapshot domain.AvailabilitySnapshot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false, domain.ErrNoActiveBooking
	}
	if !m.matches(snapshot.HotelID, snapshot.CheckIn, snapshot.CheckOut) {
		return false, nil
	}

	m.current.Availability = snapshot.Clone()
	m.touch()
	return true, nil
}

// AttachPricing прикрепляет расчет, только если он построен для выбранного номера и текущих дат
func (m *Machine) AttachPricing(pricing domain.PricingDetails) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false, domain.ErrNoActiveBooking
	}
	if m.current.SelectedRoom == nil || m.current.SelectedRoom.ID != pricing.RoomID ||
		!m.matches(m.current.Hotel.ID, pricing.CheckIn, pricing.CheckOut) {
		return false, nil
	}

	m.current.Pricing = pricing.Clone()
	m.touch()
	return true, nil
}

// Submit проверяет полноту бронирования и переводит его на шаг processing.
// Повторный вызов, пока отправка не завершена, возвращает ErrConcurrentSubmission.
func (m *Machine) Submit(userID int64, paymentToken string) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, domain.ErrNoActiveBooking
	}
	if m.current.IsProcessing() {
		return nil, domain.ErrConcurrentSubmission
	}

	b := m.current
	if b.CheckIn == nil {
		return nil, domain.NewValidationError(FieldCheckIn, "is required")
	}
	if b.CheckOut == nil {
		return nil, domain.NewValidationError(FieldCheckOut, "is required")
	}
	if b.SelectedRoom == nil {
		return nil, domain.NewValidationError(FieldRoom, "is required")
	}
	guest, err := b.Guest.Complete()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(paymentToken) == "" {
		return nil, domain.NewValidationError(FieldPaymentToken, "is required")
	}

	b.Step = domain.StepProcessing
	m.err = nil
	m.touch()

	return &Submission{
		instanceID: b.InstanceID,
		draft: domain.BookingDraft{
			InstanceID:     b.InstanceID,
			UserID:         userID,
			Hotel:          b.Hotel,
			CheckIn:        *b.CheckIn,
			CheckOut:       *b.CheckOut,
			Room:           *b.SelectedRoom,
			Guest:          guest,
			Pricing:        b.Pricing.Clone(),
			PaymentToken:   paymentToken,
			IdempotencyKey: b.InstanceID,
		},
	}, nil
}

// RefreshPricing прикрепляет новый расчет цены к бронированию отправки,
// если оно все еще текущее. Возвращает false, если бронирование уже сменилось.
func (m *Machine) RefreshPricing(sub *Submission, pricing domain.PricingDetails) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.owns(sub) {
		return false
	}
	m.current.Pricing = pricing.Clone()
	m.touch()
	return true
}

// CompleteSubmission очищает бронирование, если оно все еще принадлежит отправке.
// Бронирование, отмененное или замененное во время отправки, не восстанавливается.
func (m *Machine) CompleteSubmission(sub *Submission) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.owns(sub) {
		return false
	}
	m.current = nil
	m.err = nil
	return true
}

// FailSubmission откатывает шаг (по умолчанию на payment) и запоминает ошибку,
// если бронирование все еще принадлежит отправке
func (m *Machine) FailSubmission(sub *Submission, cause error, rollbackTo domain.BookingStep) bool {
	if rollbackTo == "" || rollbackTo == domain.StepProcessing || !rollbackTo.Valid() {
		rollbackTo = domain.StepPayment
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.owns(sub) {
		return false
	}
	m.current.Step = rollbackTo
	m.err = cause
	m.touch()
	return true
}

// Cancel отбрасывает бронирование и ошибку независимо от шага.
// Отправка в процессе не прерывается.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.err = nil
}

// Current возвращает копию текущего бронирования или nil
func (m *Machine) Current() *domain.CurrentBooking {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current.Clone()
}

// Err возвращает последнюю ошибку, показанную пользователю
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.err
}

// SetError запоминает ошибку для показа пользователю
func (m *Machine) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// ClearError сбрасывает ошибку
func (m *Machine) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = nil
}

func (m *Machine) owns(sub *Submission) bool {
	return sub != nil && m.current != nil && m.current.InstanceID == sub.instanceID
}

func (m *Machine) matches(hotelID string, checkIn, checkOut time.Time) bool {
	b := m.current
	return b.Hotel.ID == hotelID && b.HasDates() &&
		b.CheckIn.Equal(domain.DateOnly(checkIn)) && b.CheckOut.Equal(domain.DateOnly(checkOut))
}

func (m *Machine) touch() {
	m.current.UpdatedAt = m.timeProvider.Now()
}
