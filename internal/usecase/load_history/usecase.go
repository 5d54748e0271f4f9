package load_history

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
)

// UseCase use case загрузки истории бронирований из БД в ledger сессии
type UseCase struct {
	historyRepo HistoryRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(historyRepo HistoryRepository, logger Logger) *UseCase {
	return &UseCase{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Execute заменяет содержимое ledger историей из БД.
// Подтверждения, которые уже есть в ledger, но еще не дошли до БД, остаются в начале списка.
func (uc *UseCase) Execute(ctx context.Context, req *Request, ledger *history.Ledger) (*Response, error) {
	uc.logger.Info("LoadHistory: loading history for user=%d", req.UserID)

	// 1. Загрузка из БД
	persisted, err := uc.historyRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		uc.logger.Error("LoadHistory: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: Execute - repository error: %v", ErrInternal, err)
	}

	// 2. Подтверждения сессии, которых еще нет в БД
	known := make(map[string]struct{}, len(persisted))
	for _, c := range persisted {
		known[c.ID] = struct{}{}
	}

	merged := make([]domain.BookingConfirmation, 0, len(persisted)+ledger.Len())
	for _, c := range ledger.List() {
		if _, ok := known[c.ID]; ok {
			continue
		}
		merged = append(merged, c)
	}
	pending := len(merged)
	merged = append(merged, persisted...)

	// 3. Гидрация ledger
	ledger.ReplaceAll(merged)

	uc.logger.Info("LoadHistory: loaded %d bookings for user=%d (%d pending persistence)",
		len(merged), req.UserID, pending)

	return &Response{
		Bookings: ledger.List(),
		Pending:  pending,
	}, nil
}
