package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	paymentClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/quote_price"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

type mockQuoter struct {
	mock.Mock
}

func (m *mockQuoter) Quote(ctx context.Context, req *quote_price.Request) (*quote_price.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*quote_price.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPaymentClient struct {
	mock.Mock
}

func (m *mockPaymentClient) SubmitBooking(ctx context.Context, draft domain.BookingDraft) (*domain.BookingConfirmation, error) {
	args := m.Called(ctx, draft)
	if r := args.Get(0); r != nil {
		return r.(*domain.BookingConfirmation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type recordingMetrics struct {
	mu          sync.Mutex
	outcomes    []string
	attemptsBad int
}

func (r *recordingMetrics) Attempt(target, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if result != "success" {
		r.attemptsBad++
	}
}

func (r *recordingMetrics) Submission(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

var (
	checkIn  = time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	hotel    = domain.Hotel{ID: "H1", Name: "Grand Budapest", Currency: "EUR"}
	room     = domain.RoomOption{ID: "R1", Name: "Deluxe", Available: true}
	pricing  = domain.PricingDetails{RoomID: "R1", CheckIn: checkIn, CheckOut: checkOut, Nights: 5, Total: 600, Currency: "EUR"}
)

func strPtr(s string) *string {
	return &s
}

type fixture struct {
	uc        *UseCase
	quoter    *mockQuoter
	payment   *mockPaymentClient
	publisher *mockPublisher
	metrics   *recordingMetrics
	machine   *bookingstate.Machine
	ledger    *history.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		quoter:    &mockQuoter{},
		payment:   &mockPaymentClient{},
		publisher: &mockPublisher{},
		metrics:   &recordingMetrics{},
		machine:   bookingstate.NewMachine(),
		ledger:    history.NewLedger(),
	}
	config := Config{PaymentRetry: retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}}
	f.uc = NewUseCase(f.quoter, f.payment, f.publisher, f.metrics, config, logger.NewNop())

	f.machine.StartBooking(hotel)
	require.NoError(t, f.machine.SetDates(checkIn, checkOut))
	require.NoError(t, f.machine.SelectRoom(room))
	require.NoError(t, f.machine.SetGuestInfo(domain.DraftGuestInfo{
		FirstName: strPtr("John"),
		Email:     strPtr("john@example.com"),
	}))
	require.NoError(t, f.machine.SetPricing(pricing))
	require.NoError(t, f.machine.UpdateStep(domain.StepPayment))
	return f
}

func (f *fixture) quoteReturns(p domain.PricingDetails) {
	f.quoter.On("Quote", mock.Anything, &quote_price.Request{
		HotelID: "H1", RoomID: "R1", CheckIn: checkIn, CheckOut: checkOut,
	}).Return(&quote_price.Response{Pricing: p, FromCache: true}, nil)
}

func confirmed(id string) *domain.BookingConfirmation {
	return &domain.BookingConfirmation{
		ID:              id,
		ReferenceNumber: "REF-" + id,
		UserID:          42,
		Hotel:           hotel,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Room:            room,
		Pricing:         pricing,
		Status:          domain.StatusConfirmed,
	}
}

func request() *Request {
	return &Request{UserID: 42, PaymentToken: "tok_visa"}
}

func TestExecute_Confirmed(t *testing.T) {
	f := newFixture(t)
	instanceID := f.machine.Current().InstanceID
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.MatchedBy(func(d domain.BookingDraft) bool {
		return d.IdempotencyKey == instanceID && d.UserID == 42 && d.PaymentToken == "tok_visa" &&
			d.Pricing != nil && d.Pricing.Total == 600
	})).Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == domain.EventBookingConfirmed && e.Confirmation.ID == "B1" && !e.LocallyCancelled
	})).Return(nil).Once()

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.Equal(t, "B1", resp.Confirmation.ID)
	assert.False(t, resp.LocallyCancelled)
	assert.False(t, resp.Requoted)
	assert.Nil(t, f.machine.Current())
	assert.NoError(t, f.machine.Err())
	require.Equal(t, 1, f.ledger.Len())
	assert.Equal(t, "B1", f.ledger.List()[0].ID)
	assert.Equal(t, []string{OutcomeConfirmed}, f.metrics.outcomes)
	f.payment.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestExecute_DoubleSubmitCallsPaymentOnce(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.uc.Execute(context.Background(), f.machine, f.ledger, request())
	}()

	<-entered
	assert.Equal(t, domain.StepProcessing, f.machine.Current().Step)

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())
	assert.ErrorIs(t, err, domain.ErrConcurrentSubmission)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	f.payment.AssertNumberOfCalls(t, "SubmitBooking", 1)
	assert.Equal(t, 1, f.ledger.Len())
}

func TestExecute_DeclinedRollsBackWithoutRetry(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: card_declined", paymentClient.ErrPaymentDeclined)).Once()

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	current := f.machine.Current()
	require.NotNil(t, current)
	assert.Equal(t, domain.StepPayment, current.Step)
	assert.ErrorIs(t, f.machine.Err(), domain.ErrPaymentDeclined)
	assert.Equal(t, 0, f.ledger.Len())
	assert.Equal(t, []string{OutcomeDeclined}, f.metrics.outcomes)
	f.payment.AssertNumberOfCalls(t, "SubmitBooking", 1)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_TransientRetriedWithSameKey(t *testing.T) {
	f := newFixture(t)
	instanceID := f.machine.Current().InstanceID
	f.quoteReturns(pricing)
	sameKey := mock.MatchedBy(func(d domain.BookingDraft) bool { return d.IdempotencyKey == instanceID })
	f.payment.On("SubmitBooking", mock.Anything, sameKey).
		Return(nil, fmt.Errorf("%w: status 503", paymentClient.ErrUnavailable)).Twice()
	f.payment.On("SubmitBooking", mock.Anything, sameKey).Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.Equal(t, "B1", resp.Confirmation.ID)
	assert.Equal(t, 2, f.metrics.attemptsBad)
	f.payment.AssertNumberOfCalls(t, "SubmitBooking", 3)
}

func TestExecute_TransientExhausted(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection reset", paymentClient.ErrUnavailable))

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.Equal(t, domain.StepPayment, f.machine.Current().Step)
	assert.Equal(t, 0, f.ledger.Len())
	assert.Equal(t, []string{OutcomeTransient}, f.metrics.outcomes)
	f.payment.AssertNumberOfCalls(t, "SubmitBooking", 3)
}

func TestExecute_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		paymentErr  error
		wantErr     error
		wantOutcome string
	}{
		{
			name:        "rejected by payment validation",
			paymentErr:  fmt.Errorf("%w: invalid token", paymentClient.ErrValidation),
			wantErr:     domain.ErrValidation,
			wantOutcome: OutcomeRejected,
		},
		{
			name:        "unreadable response",
			paymentErr:  fmt.Errorf("%w: unexpected status 302", paymentClient.ErrInvalidResponse),
			wantErr:     domain.ErrAmbiguousOutcome,
			wantOutcome: OutcomeAmbiguous,
		},
		{
			name:        "request not built",
			paymentErr:  fmt.Errorf("%w: failed to encode request", paymentClient.ErrInternal),
			wantErr:     ErrInternal,
			wantOutcome: OutcomeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.quoteReturns(pricing)
			f.payment.On("SubmitBooking", mock.Anything, mock.Anything).Return(nil, tt.paymentErr).Once()

			_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.StepPayment, f.machine.Current().Step)
			assert.Equal(t, []string{tt.wantOutcome}, f.metrics.outcomes)
			f.payment.AssertNumberOfCalls(t, "SubmitBooking", 1)
		})
	}
}

func TestExecute_NonDefinitiveConfirmationNotRecorded(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	unknown := confirmed("B1")
	unknown.Status = "processing"
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).Return(unknown, nil).Once()

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrAmbiguousOutcome)
	assert.Equal(t, 0, f.ledger.Len())
	assert.Equal(t, domain.StepPayment, f.machine.Current().Step)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_StalePricingRequoted(t *testing.T) {
	f := newFixture(t)
	// цена осталась от других дат
	old := pricing
	old.CheckIn = checkIn.AddDate(0, 0, -3)
	old.Total = 720
	require.NoError(t, f.machine.SetPricing(old))

	fresh := pricing
	fresh.Total = 650
	f.quoteReturns(fresh)
	f.payment.On("SubmitBooking", mock.Anything, mock.MatchedBy(func(d domain.BookingDraft) bool {
		return d.Pricing != nil && d.Pricing.Total == 650 && d.Pricing.CheckIn.Equal(checkIn)
	})).Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.True(t, resp.Requoted)
	f.payment.AssertExpectations(t)
}

func TestExecute_MissingPricingQuoted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.machine.SelectRoom(room)) // сбрасывает цену
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.MatchedBy(func(d domain.BookingDraft) bool {
		return d.Pricing != nil && d.Pricing.Total == 600
	})).Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.True(t, resp.Requoted)
}

func TestExecute_QuoteFailure(t *testing.T) {
	tests := []struct {
		name     string
		quoteErr error
		wantStep domain.BookingStep
	}{
		{name: "room gone", quoteErr: domain.ErrRoomNotFound, wantStep: domain.StepRooms},
		{name: "hotel service down", quoteErr: domain.ErrTransientNetwork, wantStep: domain.StepPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.quoter.On("Quote", mock.Anything, mock.Anything).Return(nil, tt.quoteErr)

			_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

			assert.ErrorIs(t, err, tt.quoteErr)
			assert.Equal(t, tt.wantStep, f.machine.Current().Step)
			assert.ErrorIs(t, f.machine.Err(), tt.quoteErr)
			assert.Equal(t, []string{OutcomeNoQuote}, f.metrics.outcomes)
			f.payment.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_CancelledInFlightStillRecorded(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.machine.Cancel()
		}).
		Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.LocallyCancelled
	})).Return(nil).Once()

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.True(t, resp.LocallyCancelled)
	assert.Nil(t, f.machine.Current())
	assert.Equal(t, 1, f.ledger.Len())
	f.publisher.AssertExpectations(t)
}

func TestExecute_ClientDisconnectDoesNotAbortPayment(t *testing.T) {
	f := newFixture(t)
	ctx, disconnect := context.WithCancel(context.Background())
	defer disconnect()

	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			disconnect()
			paymentCtx := args.Get(0).(context.Context)
			assert.NoError(t, paymentCtx.Err(), "payment must not observe the client going away")
			_, hasDeadline := paymentCtx.Deadline()
			assert.True(t, hasDeadline, "payment must still be bounded")
		}).
		Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := f.uc.Execute(ctx, f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.Equal(t, "B1", resp.Confirmation.ID)
	assert.Nil(t, f.machine.Current())
	assert.Equal(t, 1, f.ledger.Len())
	assert.Equal(t, []string{OutcomeConfirmed}, f.metrics.outcomes)
	f.payment.AssertExpectations(t)
}

func TestExecute_SubmitTimeoutIsAmbiguous(t *testing.T) {
	f := newFixture(t)
	f.uc.config.SubmitTimeout = 20 * time.Millisecond
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Return(nil, errors.New("read tcp: i/o timeout")).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).Once()

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrAmbiguousOutcome)
	assert.Equal(t, domain.StepPayment, f.machine.Current().Step)
	assert.Equal(t, 0, f.ledger.Len())
	assert.Equal(t, []string{OutcomeAmbiguous}, f.metrics.outcomes)
}

func TestNewUseCase_DefaultsSubmitTimeout(t *testing.T) {
	uc := NewUseCase(&mockQuoter{}, &mockPaymentClient{}, &mockPublisher{}, &recordingMetrics{}, Config{}, logger.NewNop())

	assert.Equal(t, domain.DefaultSubmitTimeout, uc.config.SubmitTimeout)
}

func TestExecute_NewBookingDuringSubmissionKept(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			f.machine.Cancel()
			f.machine.StartBooking(domain.Hotel{ID: "H2"})
		}).
		Return(nil, fmt.Errorf("%w: insufficient funds", paymentClient.ErrPaymentDeclined)).Once()

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	current := f.machine.Current()
	require.NotNil(t, current)
	assert.Equal(t, "H2", current.Hotel.ID)
	assert.Equal(t, domain.StepDates, current.Step)
	assert.NoError(t, f.machine.Err())
}

func TestExecute_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	f.machine.StartBooking(hotel)
	require.NoError(t, f.machine.SetDates(checkIn, checkOut))
	require.NoError(t, f.machine.SelectRoom(room))
	require.NoError(t, f.machine.SetGuestInfo(domain.DraftGuestInfo{FirstName: strPtr("John")}))
	require.NoError(t, f.machine.UpdateStep(domain.StepPayment))

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrValidation)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, domain.StepPayment, f.machine.Current().Step)
	assert.ErrorIs(t, f.machine.Err(), domain.ErrValidation)
	f.quoter.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
	f.payment.AssertNotCalled(t, "SubmitBooking", mock.Anything, mock.Anything)
}

func TestExecute_NoActiveBooking(t *testing.T) {
	f := newFixture(t)
	f.machine.Cancel()

	_, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	assert.ErrorIs(t, err, domain.ErrNoActiveBooking)
}

func TestExecute_PublishErrorIgnored(t *testing.T) {
	f := newFixture(t)
	f.quoteReturns(pricing)
	f.payment.On("SubmitBooking", mock.Anything, mock.Anything).Return(confirmed("B1"), nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("queue is down")).Once()

	resp, err := f.uc.Execute(context.Background(), f.machine, f.ledger, request())

	require.NoError(t, err)
	assert.Equal(t, "B1", resp.Confirmation.ID)
	assert.Equal(t, 1, f.ledger.Len())
}
