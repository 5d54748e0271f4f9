package quote_price

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

const metricsTarget = "pricing"

// UseCase use case для расчета цены номера
type UseCase struct {
	cache       PricingCache
	hotelClient HotelServiceClient
	metrics     MetricsRecorder
	config      Config
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	pricingCache PricingCache,
	hotelClient HotelServiceClient,
	metrics MetricsRecorder,
	config Config,
	logger Logger,
) *UseCase {
	if config.MaxStaleRefetch < 1 {
		config.MaxStaleRefetch = 1
	}
	return &UseCase{
		cache:       pricingCache,
		hotelClient: hotelClient,
		metrics:     metrics,
		config:      config,
		logger:      logger,
	}
}

// Execute гарантирует, что к бронированию прикреплен расчет цены для выбранного номера и текущих дат
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
		if current.SelectedRoom == nil {
			return nil, domain.ErrRoomRequired
		}

		// 2. Получаем расчет (кэш или HotelService)
		resp, err := uc.Quote(ctx, &Request{
			HotelID:  current.Hotel.ID,
			RoomID:   current.SelectedRoom.ID,
			CheckIn:  *current.CheckIn,
			CheckOut: *current.CheckOut,
		})
		if err != nil {
			machine.SetError(err)
			return nil, err
		}

		// 3. Прикрепляем, только если номер и даты не сменились за время запроса
		attached, err := machine.AttachPricing(resp.Pricing)
		if err != nil {
			uc.logger.Warn("QuotePrice: booking was discarded during lookup")
			return nil, err
		}
		if attached {
			machine.ClearError()
			return resp, nil
		}

		uc.logger.Warn("QuotePrice: room or dates changed during lookup, requoting (attempt %d/%d)",
			attempt, uc.config.MaxStaleRefetch)
	}

	err := fmt.Errorf("%w: pricing kept changing after %d requotes", domain.ErrStaleQuote, uc.config.MaxStaleRefetch)
	machine.SetError(err)
	return nil, err
}

// Quote возвращает расчет цены из кэша, на промахе запрашивает HotelService и кладет результат в кэш
func (uc *UseCase) Quote(ctx context.Context, req *Request) (*Response, error) {
	key := cache.PricingKey(req.HotelID, req.RoomID, req.CheckIn, req.CheckOut)

	if pricing, ok := uc.cache.Get(ctx, key); ok {
		return &Response{Pricing: pricing, FromCache: true}, nil
	}

	uc.logger.Info("QuotePrice: cache miss key=%s, fetching from HotelService", key)

	var pricing *domain.PricingDetails
	err := retry.Do(ctx, uc.config.Retry, isTransient, func(attempt int) error {
		result, err := uc.hotelClient.GetPricing(ctx, req.HotelID, req.RoomID, req.CheckIn, req.CheckOut)
		if err != nil {
			uc.metrics.Attempt(metricsTarget, "failure")
			uc.logger.Warn("QuotePrice: attempt %d for key=%s failed: %v", attempt, key, err)
			return err
		}
		uc.metrics.Attempt(metricsTarget, "success")
		pricing = result
		return nil
	})
	if err != nil {
		return nil, uc.translate(key, err)
	}

	uc.cache.Put(ctx, key, *pricing, uc.config.TTL)
	uc.logger.Info("QuotePrice: key=%s, total=%.2f %s", key, pricing.Total, pricing.Currency)

	return &Response{Pricing: *pricing}, nil
}

func (uc *UseCase) translate(key string, err error) error {
	switch {
	case errors.Is(err, hotelClient.ErrRoomNotFound):
		uc.logger.Warn("QuotePrice: room not found key=%s", key)
		return domain.ErrRoomNotFound
	case errors.Is(err, hotelClient.ErrInvalidRequest):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, hotelClient.ErrUnavailable):
		uc.logger.Error("QuotePrice: HotelService unavailable key=%s after retries: %v", key, err)
		return fmt.Errorf("%w: pricing lookup: %v", domain.ErrTransientNetwork, err)
	default:
		uc.logger.Error("QuotePrice: failed to get pricing key=%s: %v", key, err)
		return fmt.Errorf("%w: failed to get pricing: %v", ErrInternal, err)
	}
}

func isTransient(err error) bool {
	return errors.Is(err, hotelClient.ErrUnavailable)
}
