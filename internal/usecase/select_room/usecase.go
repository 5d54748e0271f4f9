package select_room

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
)

// UseCase use case выбора номера.
// Номер выбирается только из снимка доступности, построенного для текущих дат бронирования.
type UseCase struct {
	availability    AvailabilityChecker
	quoter          PriceQuoter
	maxStaleRefetch int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityChecker, quoter PriceQuoter, maxStaleRefetch int, logger Logger) *UseCase {
	if maxStaleRefetch < 1 {
		maxStaleRefetch = 1
	}
	return &UseCase{
		availability:    availability,
		quoter:          quoter,
		maxStaleRefetch: maxStaleRefetch,
		logger:          logger,
	}
}

// Execute выбирает номер и рассчитывает его цену
func (uc *UseCase) Execute(ctx context.Context, machine *bookingstate.Machine, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		return nil, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}

	uc.logger.Info("SelectRoom: room=%s", roomID)

	var room domain.RoomOption
	selected := false
	for attempt := 1; attempt <= uc.maxStaleRefetch && !selected; attempt++ {
		// 2. Актуальный снимок доступности для текущих дат
		availability, err := uc.availability.Execute(ctx, machine)
		if err != nil {
			uc.logger.Warn("SelectRoom: availability check failed: %v", err)
			return nil, err
		}
		snapshot := availability.Snapshot

		// 3. Номер должен быть в снимке и доступен
		var found bool
		room, found = snapshot.FindRoom(roomID)
		if !found {
			uc.logger.Warn("SelectRoom: room=%s not listed for hotel=%s", roomID, snapshot.HotelID)
			return nil, domain.ErrRoomNotFound
		}
		if !snapshot.Available || !room.Available {
			uc.logger.Warn("SelectRoom: room=%s is not available", roomID)
			return nil, domain.ErrRoomUnavailable
		}

		// 4. Выбираем, только если даты не сменились после проверки
		selected, err = machine.SelectRoomFor(snapshot, room)
		if err != nil {
			return nil, err
		}
		if !selected {
			uc.logger.Warn("SelectRoom: dates changed after availability check, rechecking (attempt %d/%d)",
				attempt, uc.maxStaleRefetch)
		}
	}
	if !selected {
		err := fmt.Errorf("%w: dates kept changing while selecting room", domain.ErrStaleQuote)
		machine.SetError(err)
		return nil, err
	}

	// 5. Цена для выбранного номера
	quote, err := uc.quoter.Execute(ctx, machine)
	if err != nil {
		uc.logger.Warn("SelectRoom: pricing failed for room=%s: %v", roomID, err)
		return nil, err
	}

	uc.logger.Info("SelectRoom: room=%s selected, total=%.2f %s", roomID, quote.Pricing.Total, quote.Pricing.Currency)
	return &Response{Room: room, Pricing: quote.Pricing}, nil
}
