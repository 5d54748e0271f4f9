package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/infra/cache"
	paymentClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/quote_price"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

const metricsTarget = "payment"

// UseCase use case отправки бронирования: сверка цены, оплата, запись в историю
type UseCase struct {
	quoter        PriceQuoter
	paymentClient PaymentServiceClient
	publisher     EventPublisher
	metrics       MetricsRecorder
	config        Config
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	quoter PriceQuoter,
	paymentClient PaymentServiceClient,
	publisher EventPublisher,
	metrics MetricsRecorder,
	config Config,
	logger Logger,
) *UseCase {
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = domain.DefaultSubmitTimeout
	}
	return &UseCase{
		quoter:        quoter,
		paymentClient: paymentClient,
		publisher:     publisher,
		metrics:       metrics,
		config:        config,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute отправляет текущее бронирование сессии.
// Пока отправка идет, бронирование находится на шаге processing и повторная отправка отклоняется.
// Подтверждение записывается в историю, даже если бронирование отменили во время отправки.
func (uc *UseCase) Execute(ctx context.Context, machine *bookingstate.Machine, ledger *history.Ledger, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: user=%d", req.UserID)

	// 1. Проверка полноты и переход в processing
	sub, err := machine.Submit(req.UserID, req.PaymentToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrentSubmission):
			uc.logger.Warn("SubmitBooking: user=%d already has a submission in flight", req.UserID)
		case errors.Is(err, domain.ErrValidation):
			uc.logger.Warn("SubmitBooking: validation failed for user=%d: %v", req.UserID, err)
			machine.SetError(err)
		default:
			uc.logger.Warn("SubmitBooking: cannot submit for user=%d: %v", req.UserID, err)
		}
		return nil, err
	}

	draft := sub.Draft()
	uc.logger.Info("SubmitBooking: instance=%s, hotel=%s, room=%s, %s..%s",
		draft.InstanceID, draft.Hotel.ID, draft.Room.ID,
		draft.CheckIn.Format(domain.DateFormat), draft.CheckOut.Format(domain.DateFormat))

	// Дальше бронирование в processing: отмена запроса клиентом не должна оборвать оплату,
	// иначе подтвержденная бронь не попадет в историю
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.config.SubmitTimeout)
	defer cancel()

	// 2. Сверка цены с номером и датами; устаревшая цена никогда не уходит в оплату
	pricing, requoted, err := uc.verifyPricing(workCtx, draft)
	if err != nil {
		rollbackTo := domain.StepPayment
		if errors.Is(err, domain.ErrRoomNotFound) {
			rollbackTo = domain.StepRooms
		}
		uc.fail(machine, sub, err, rollbackTo, OutcomeNoQuote)
		return nil, err
	}
	draft.Pricing = pricing
	if requoted {
		machine.RefreshPricing(sub, *pricing)
	}

	// 3. Оплата с повторами только при временных ошибках; ключ идемпотентности защищает от двойного списания
	var confirmation *domain.BookingConfirmation
	err = retry.Do(workCtx, uc.config.PaymentRetry, isTransient, func(attempt int) error {
		result, err := uc.paymentClient.SubmitBooking(workCtx, draft)
		if err != nil {
			uc.metrics.Attempt(metricsTarget, "failure")
			uc.logger.Warn("SubmitBooking: payment attempt %d for instance=%s failed: %v", attempt, draft.InstanceID, err)
			return err
		}
		uc.metrics.Attempt(metricsTarget, "success")
		confirmation = result
		return nil
	})

	// 4. Классификация ошибок оплаты
	if err != nil {
		translated, outcome := uc.classify(workCtx, err)
		uc.fail(machine, sub, translated, domain.StepPayment, outcome)
		return nil, translated
	}

	// 5. Неопределенный результат в историю не попадает
	if !confirmation.IsDefinitive() {
		err := fmt.Errorf("%w: booking id=%q, reference=%q, status=%q",
			domain.ErrAmbiguousOutcome, confirmation.ID, confirmation.ReferenceNumber, confirmation.Status)
		uc.fail(machine, sub, err, domain.StepPayment, OutcomeAmbiguous)
		return nil, err
	}

	// 6. Запись в историю, затем очистка бронирования (без воскрешения отмененного)
	ledger.Append(*confirmation)
	completed := machine.CompleteSubmission(sub)
	if !completed {
		uc.logger.Warn("SubmitBooking: booking instance=%s was cancelled or replaced during submission, confirmation id=%s recorded anyway",
			draft.InstanceID, confirmation.ID)
	}
	uc.metrics.Submission(OutcomeConfirmed)

	// 7. Исходящее событие после записи в историю; ошибки публикации не влияют на результат
	event := domain.BookingEvent{
		Type:             domain.EventBookingConfirmed,
		Confirmation:     confirmation.Clone(),
		LocallyCancelled: !completed,
		OccurredAt:       uc.timeProvider.Now(),
	}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Error("SubmitBooking: failed to publish event for booking id=%s: %v", confirmation.ID, err)
	}

	uc.logger.Info("SubmitBooking: booking id=%s, reference=%s, status=%s confirmed for user=%d",
		confirmation.ID, confirmation.ReferenceNumber, confirmation.Status, req.UserID)

	return &Response{
		Confirmation:     confirmation.Clone(),
		LocallyCancelled: !completed,
		Requoted:         requoted,
	}, nil
}

// verifyPricing возвращает цену для (номер, заезд, выезд) черновика.
// Цена черновика, построенная для других номера или дат, считается устаревшей и пересчитывается.
func (uc *UseCase) verifyPricing(ctx context.Context, draft domain.BookingDraft) (*domain.PricingDetails, bool, error) {
	key := cache.PricingKey(draft.Hotel.ID, draft.Room.ID, draft.CheckIn, draft.CheckOut)

	stale := draft.Pricing == nil ||
		cache.PricingKey(draft.Hotel.ID, draft.Pricing.RoomID, draft.Pricing.CheckIn, draft.Pricing.CheckOut) != key
	if stale {
		uc.logger.Warn("SubmitBooking: %v: instance=%s, key=%s, requoting", domain.ErrStaleQuote, draft.InstanceID, key)
	}

	quote, err := uc.quoter.Quote(ctx, &quote_price.Request{
		HotelID:  draft.Hotel.ID,
		RoomID:   draft.Room.ID,
		CheckIn:  draft.CheckIn,
		CheckOut: draft.CheckOut,
	})
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to quote key=%s: %v", key, err)
		return nil, false, err
	}

	pricing := quote.Pricing
	requoted := stale || draft.Pricing.Total != pricing.Total || draft.Pricing.Currency != pricing.Currency
	if requoted && !stale {
		uc.logger.Info("SubmitBooking: price changed for key=%s: %.2f -> %.2f", key, draft.Pricing.Total, pricing.Total)
	}

	return &pricing, requoted, nil
}

// classify переводит ошибку PaymentService в доменную и возвращает исход для метрик
func (uc *UseCase) classify(ctx context.Context, err error) (error, string) {
	switch {
	case errors.Is(err, paymentClient.ErrPaymentDeclined):
		return fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err), OutcomeDeclined
	case errors.Is(err, paymentClient.ErrValidation):
		return fmt.Errorf("%w: %v", domain.ErrValidation, err), OutcomeRejected
	case errors.Is(err, paymentClient.ErrUnavailable):
		return fmt.Errorf("%w: payment: %v", domain.ErrTransientNetwork, err), OutcomeTransient
	case ctx.Err() != nil, errors.Is(err, paymentClient.ErrInvalidResponse):
		// запрос мог дойти до сервиса; повтор с тем же ключом идемпотентности безопасен
		return fmt.Errorf("%w: %v", domain.ErrAmbiguousOutcome, err), OutcomeAmbiguous
	default:
		return fmt.Errorf("%w: payment: %v", ErrInternal, err), OutcomeInternal
	}
}

// fail откатывает бронирование и запоминает ошибку, если оно все еще принадлежит отправке
func (uc *UseCase) fail(machine *bookingstate.Machine, sub *bookingstate.Submission, err error, rollbackTo domain.BookingStep, outcome string) {
	uc.metrics.Submission(outcome)

	if machine.FailSubmission(sub, err, rollbackTo) {
		uc.logger.Warn("SubmitBooking: instance=%s rolled back to %s: %v", sub.InstanceID(), rollbackTo, err)
		return
	}
	uc.logger.Warn("SubmitBooking: instance=%s failed after local cancellation: %v", sub.InstanceID(), err)
}

func isTransient(err error) bool {
	return errors.Is(err, paymentClient.ErrUnavailable)
}
