package cancel_confirmed_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	historyRepo "github.com/m04kA/SMC-TravelBooking/internal/infra/storage/history"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
)

// UseCase use case отмены подтвержденного бронирования
type UseCase struct {
	historyRepo  HistoryRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	historyRepo HistoryRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		historyRepo:  historyRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит бронирование из истории в статус cancelled.
// Сначала изменение сохраняется в БД, затем обновляются все записи ledger с этим ID.
func (uc *UseCase) Execute(ctx context.Context, req *Request, ledger *history.Ledger) (*Response, error) {
	uc.logger.Info("CancelConfirmedBooking: cancelling booking id=%s by user=%d", req.BookingID, req.UserID)

	// 1. Валидация
	reason := strings.TrimSpace(req.Reason)
	if strings.TrimSpace(req.BookingID) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		uc.logger.Warn("CancelConfirmedBooking: reason too long for booking id=%s", req.BookingID)
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Поиск в истории сессии и проверка прав
	confirmation, ok := ledger.Get(req.BookingID)
	if !ok {
		uc.logger.Warn("CancelConfirmedBooking: booking id=%s not found in history of user=%d", req.BookingID, req.UserID)
		return nil, ErrBookingNotFound
	}
	if confirmation.UserID != req.UserID {
		uc.logger.Warn("CancelConfirmedBooking: access denied for user=%d to booking id=%s", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if !confirmation.CanBeCancelled() {
		uc.logger.Warn("CancelConfirmedBooking: booking id=%s cannot be cancelled, status=%s", req.BookingID, confirmation.Status)
		return nil, ErrCannotCancel
	}

	now := uc.timeProvider.Now().UTC()

	// 3. Сохранение в БД
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		stored, err := uc.historyRepo.GetByID(ctx, req.BookingID)
		if errors.Is(err, historyRepo.ErrBookingNotFound) {
			// подтверждение еще не дошло до БД; сохраняем его сразу отмененным
			cancelled := confirmation.Clone()
			cancelled.Status = domain.StatusCancelled
			cancelled.UpdatedAt = now
			_, err = uc.historyRepo.Create(ctx, cancelled)
			return err
		}
		if err != nil {
			return err
		}
		if !stored.CanBeCancelled() {
			return ErrCannotCancel
		}
		return uc.historyRepo.Cancel(ctx, req.BookingID, reason, now)
	})
	if err != nil {
		if errors.Is(err, ErrCannotCancel) {
			uc.logger.Warn("CancelConfirmedBooking: booking id=%s already cancelled in storage", req.BookingID)
			ledger.UpdateByID(req.BookingID, history.ConfirmationPatch{Status: statusPtr(domain.StatusCancelled)})
			return nil, ErrCannotCancel
		}
		uc.logger.Error("CancelConfirmedBooking: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Execute - repository error: %v", ErrInternal, err)
	}

	// 4. Обновление ledger
	touched := ledger.UpdateByID(req.BookingID, history.ConfirmationPatch{
		Status:    statusPtr(domain.StatusCancelled),
		UpdatedAt: &now,
	})

	updated, _ := ledger.Get(req.BookingID)

	// 5. Исходящее событие; ошибки публикации не влияют на результат
	event := domain.BookingEvent{
		Type:         domain.EventBookingCancelled,
		Confirmation: updated.Clone(),
		Reason:       reason,
		OccurredAt:   now,
	}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Error("CancelConfirmedBooking: failed to publish event for booking id=%s: %v", req.BookingID, err)
	}

	uc.logger.Info("CancelConfirmedBooking: successfully cancelled booking id=%s (%d history entries)", req.BookingID, touched)

	return &Response{
		Confirmation: updated,
		Touched:      touched,
	}, nil
}

func statusPtr(s domain.BookingStatus) *domain.BookingStatus {
	return &s
}
