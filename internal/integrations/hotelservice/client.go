package hotelservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// Client клиент для работы с HotelService (доступность и цены)
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента HotelService.
// rps <= 0 отключает ограничение частоты запросов.
func NewClient(baseURL string, timeout time.Duration, rps float64, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newLimiter(rps),
		log:     log,
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// GetAvailability получает доступность номеров отеля на диапазон дат
func (c *Client) GetAvailability(ctx context.Context, hotelID string, checkIn, checkOut time.Time) (*domain.AvailabilitySnapshot, error) {
	query := url.Values{}
	query.Set("check_in", checkIn.UTC().Format(domain.DateFormat))
	query.Set("check_out", checkOut.UTC().Format(domain.DateFormat))
	endpoint := fmt.Sprintf("%s/internal/hotels/%s/availability?%s", c.baseURL, url.PathEscape(hotelID), query.Encode())

	var resp AvailabilityResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	return resp.ToDomain(hotelID, checkIn, checkOut, time.Now()), nil
}

// GetPricing получает расчет цены номера на диапазон дат
func (c *Client) GetPricing(ctx context.Context, hotelID, roomID string, checkIn, checkOut time.Time) (*domain.PricingDetails, error) {
	query := url.Values{}
	query.Set("check_in", checkIn.UTC().Format(domain.DateFormat))
	query.Set("check_out", checkOut.UTC().Format(domain.DateFormat))
	endpoint := fmt.Sprintf("%s/internal/hotels/%s/rooms/%s/pricing?%s",
		c.baseURL, url.PathEscape(hotelID), url.PathEscape(roomID), query.Encode())

	var resp PricingResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if resp.RoomID == "" {
		resp.RoomID = roomID
	}
	if resp.RoomID != roomID {
		return nil, fmt.Errorf("%w: pricing for room %s returned for room %s", ErrInvalidResponse, resp.RoomID, roomID)
	}

	return resp.ToDomain(checkIn, checkOut, time.Now()), nil
}

// errNotFound 404 от сервиса; публичные методы переводят его в свою ошибку
var errNotFound = errors.New("hotelservice client: not found")

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: request cancelled: %v", ErrInternal, ctx.Err())
		}
		c.log.Warn("HotelService request failed: url=%s: %v", endpoint, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, readMessage(resp.Body))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, readMessage(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readMessage(resp.Body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// readMessage достает message из ErrorResponse, иначе возвращает тело как есть
func readMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(data)
}
