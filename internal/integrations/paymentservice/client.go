package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

// IdempotencyKeyHeader заголовок ключа идемпотентности
const IdempotencyKeyHeader = "Idempotency-Key"

// Client клиент для работы с PaymentService (оплата и оформление бронирования)
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService.
// rps <= 0 отключает ограничение частоты запросов.
func NewClient(baseURL string, timeout time.Duration, rps float64, log Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		log:     log,
	}
}

// SubmitBooking списывает оплату и оформляет бронирование.
// Ключ идемпотентности из черновика передается в заголовке: повтор не приводит к двойному списанию.
func (c *Client) SubmitBooking(ctx context.Context, draft domain.BookingDraft) (*domain.BookingConfirmation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	body, err := json.Marshal(FromDraft(draft))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/bookings", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, draft.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: request cancelled: %v", ErrInternal, ctx.Err())
		}
		c.log.Warn("PaymentService request failed: instance=%s: %v", draft.InstanceID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, readMessage(resp.Body))
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrValidation, readMessage(resp.Body))
	case resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusRequestTimeout ||
		resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, readMessage(resp.Body))
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readMessage(resp.Body))
	}

	// Парсим ответ
	var confirmation ConfirmationResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return confirmation.ToDomain(draft, time.Now()), nil
}

// readMessage достает message из ErrorResponse, иначе возвращает тело как есть
func readMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		if errResp.Field != "" {
			return errResp.Field + ": " + errResp.Message
		}
		return errResp.Message
	}
	return string(data)
}
