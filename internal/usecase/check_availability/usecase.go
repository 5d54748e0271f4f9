package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/infra/cache"
	hotelClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/hotelservice"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
)

const metricsTarget = "availability"

// UseCase use case для получения актуального снимка доступности текущего бронирования
type UseCase struct {
	cache       AvailabilityCache
	hotelClient HotelServiceClient
	metrics     MetricsRecorder
	config      Config
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityCache AvailabilityCache,
	hotelClient HotelServiceClient,
	metrics MetricsRecorder,
	config Config,
	logger Logger,
) *UseCase {
	if config.MaxStaleRefetch < 1 {
		config.MaxStaleRefetch = 1
	}
	return &UseCase{
		cache:       availabilityCache,
		hotelClient: hotelClient,
		metrics:     metrics,
		config:      config,
		logger:      logger,
	}
}

// Execute гарантирует, что к бронированию прикреплен снимок доступности для его текущих дат.
// Снимок берется из кэша, на промахе запрашивается у HotelService и кладется в кэш.
// Если даты сменились, пока шел запрос, результат не прикрепляется и запрос повторяется для новых дат.
func (uc *UseCase) Execute(ctx context.Context, machine *bookingstate.Machine) (*Response, error) {
	for attempt := 1; attempt <= uc.config.MaxStaleRefetch; attempt++ {
		// 1. Читаем текущее состояние бронирования
		current := machine.Current()
		if current == nil {
			return nil, domain.ErrNoActiveBooking
		}
		if !current.HasDates() {
			return nil, domain.ErrDatesRequired
		}

		hotelID := current.Hotel.ID
		key := cache.AvailabilityKey(hotelID, *current.CheckIn, *current.CheckOut)

		// 2. Кэш, на промахе - HotelService
		snapshot, fromCache := uc.cache.Get(ctx, key)
		if !fromCache {
			uc.logger.Info("CheckAvailability: cache miss key=%s, fetching from HotelService", key)

			fetched, err := uc.lookup(ctx, hotelID, current)
			if err != nil {
				machine.SetError(err)
				return nil, err
			}
			snapshot = *fetched
			uc.cache.Put(ctx, key, snapshot, uc.config.TTL)
		}

		// 3. Прикрепляем, только если даты не сменились за время запроса
		attached, err := machine.AttachAvailability(snapshot)
		if err != nil {
			uc.logger.Warn("CheckAvailability: booking was discarded during lookup key=%s", key)
			return nil, err
		}
		if attached {
			machine.ClearError()
			uc.logger.Info("CheckAvailability: key=%s, available=%t, rooms=%d, fromCache=%t",
				key, snapshot.Available, len(snapshot.Rooms), fromCache)
			return &Response{Snapshot: snapshot, FromCache: fromCache}, nil
		}

		uc.logger.Warn("CheckAvailability: dates changed during lookup key=%s, refetching (attempt %d/%d)",
			key, attempt, uc.config.MaxStaleRefetch)
	}

	err := fmt.Errorf("%w: availability kept changing after %d refetches", domain.ErrStaleQuote, uc.config.MaxStaleRefetch)
	machine.SetError(err)
	return nil, err
}

// lookup запрашивает доступность с повторами при временных ошибках и переводит ошибки клиента в доменные
func (uc *UseCase) lookup(ctx context.Context, hotelID string, current *domain.CurrentBooking) (*domain.AvailabilitySnapshot, error) {
	var snapshot *domain.AvailabilitySnapshot

	err := retry.Do(ctx, uc.config.Retry, isTransient, func(attempt int) error {
		result, err := uc.hotelClient.GetAvailability(ctx, hotelID, *current.CheckIn, *current.CheckOut)
		if err != nil {
			uc.metrics.Attempt(metricsTarget, "failure")
			uc.logger.Warn("CheckAvailability: attempt %d for hotel=%s failed: %v", attempt, hotelID, err)
			return err
		}
		uc.metrics.Attempt(metricsTarget, "success")
		snapshot = result
		return nil
	})
	if err == nil {
		return snapshot, nil
	}

	switch {
	case errors.Is(err, hotelClient.ErrHotelNotFound):
		uc.logger.Warn("CheckAvailability: hotel id=%s not found", hotelID)
		return nil, domain.ErrHotelNotFound
	case errors.Is(err, hotelClient.ErrInvalidRequest):
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, hotelClient.ErrUnavailable):
		uc.logger.Error("CheckAvailability: HotelService unavailable for hotel=%s after retries: %v", hotelID, err)
		return nil, fmt.Errorf("%w: availability lookup: %v", domain.ErrTransientNetwork, err)
	default:
		uc.logger.Error("CheckAvailability: failed to get availability for hotel=%s: %v", hotelID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
}

func isTransient(err error) bool {
	return errors.Is(err, hotelClient.ErrUnavailable)
}
