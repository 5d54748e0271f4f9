package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if r := args.Get(0); r != nil {
		return r.(*asynq.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Handle(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type eventCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newEventCounter() *eventCounter {
	return &eventCounter{counts: make(map[string]int)}
}

func (c *eventCounter) Event(stage, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[stage+"/"+result]++
}

func confirmedEvent() domain.BookingEvent {
	checkIn := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	return domain.BookingEvent{
		Type: domain.EventBookingConfirmed,
		Confirmation: domain.BookingConfirmation{
			ID:              "B1",
			ReferenceNumber: "REF-1",
			UserID:          42,
			Hotel:           domain.Hotel{ID: "H1", Name: "Grand Budapest", Currency: "EUR"},
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Guest:           domain.GuestInfo{FirstName: "John", Email: "john@example.com"},
			Room:            domain.RoomOption{ID: "R1", Name: "Deluxe", BaseRate: 100, Currency: "EUR"},
			Pricing: domain.PricingDetails{
				RoomID: "R1", CheckIn: checkIn, CheckOut: checkOut, BaseRate: 100, Nights: 5,
				Items:    []domain.PriceItem{{Code: "VAT", Label: "VAT", Amount: 100, Kind: domain.PriceItemTax}},
				Total:    600,
				Currency: "EUR",
			},
			Status:    domain.StatusConfirmed,
			CreatedAt: time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
		},
		OccurredAt: time.Date(2024, 12, 1, 10, 0, 1, 0, time.UTC),
	}
}

func TestNewEventTask_DecodesBack(t *testing.T) {
	event := confirmedEvent()

	task, err := NewEventTask(event)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingConfirmed, task.Type())

	decoded, err := DecodeEvent(task.Payload())
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestNewEventTask_UnknownType(t *testing.T) {
	event := confirmedEvent()
	event.Type = "booking.exploded"

	_, err := NewEventTask(event)

	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDecodeEvent_Garbage(t *testing.T) {
	_, err := DecodeEvent([]byte("{not json"))

	assert.ErrorIs(t, err, ErrDecodePayload)
}

func TestPublisher_Enqueues(t *testing.T) {
	client := &mockEnqueuer{}
	metrics := newEventCounter()
	p := NewPublisher(client, Config{Queue: "bookings", MaxRetry: 5}, metrics, logger.NewNop())

	client.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == TypeBookingConfirmed
	}), mock.MatchedBy(func(opts []asynq.Option) bool {
		for _, opt := range opts {
			if opt.Type() == asynq.TaskIDOpt && opt.Value() == "booking.confirmed:B1" {
				return true
			}
		}
		return false
	})).Return(&asynq.TaskInfo{ID: "booking.confirmed:B1", Queue: "bookings"}, nil).Once()

	err := p.Publish(context.Background(), confirmedEvent())

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.counts["publish/success"])
	client.AssertExpectations(t)
}

func TestPublisher_DuplicateIsNotAnError(t *testing.T) {
	client := &mockEnqueuer{}
	metrics := newEventCounter()
	p := NewPublisher(client, Config{MaxRetry: 5}, metrics, logger.NewNop())

	client.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("enqueue: %w", asynq.ErrTaskIDConflict)).Once()

	err := p.Publish(context.Background(), confirmedEvent())

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.counts["publish/duplicate"])
}

func TestPublisher_EnqueueFailure(t *testing.T) {
	client := &mockEnqueuer{}
	metrics := newEventCounter()
	p := NewPublisher(client, Config{MaxRetry: 5}, metrics, logger.NewNop())

	client.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("redis: connection refused")).Once()

	err := p.Publish(context.Background(), confirmedEvent())

	assert.ErrorIs(t, err, ErrEnqueue)
	assert.Equal(t, 1, metrics.counts["publish/failure"])
}

func TestInlinePublisher(t *testing.T) {
	handler := &mockHandler{}
	metrics := newEventCounter()
	p := NewInlinePublisher(handler, metrics, logger.NewNop())
	event := confirmedEvent()

	handler.On("Handle", mock.Anything, event).Return(nil).Once()
	require.NoError(t, p.Publish(context.Background(), event))

	handler.On("Handle", mock.Anything, event).Return(errors.New("notification service down")).Once()
	assert.Error(t, p.Publish(context.Background(), event))

	event.Type = "booking.exploded"
	assert.ErrorIs(t, p.Publish(context.Background(), event), ErrUnknownEvent)

	assert.Equal(t, 1, metrics.counts["publish/success"])
	assert.Equal(t, 1, metrics.counts["publish/failure"])
	assert.Equal(t, 1, metrics.counts["publish/invalid"])
	handler.AssertNumberOfCalls(t, "Handle", 2)
}
