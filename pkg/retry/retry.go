package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy параметры повторов с экспоненциальной задержкой
type Policy struct {
	MaxAttempts     int // включая первую попытку
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy политика по умолчанию: 3 попытки, 200ms -> 2s
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// Do вызывает fn, пока она возвращает ошибку, для которой retryable == true,
// но не больше MaxAttempts раз. Неповторяемая ошибка возвращается сразу.
// Возвращает последнюю ошибку fn либо ошибку контекста.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(attempt int) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, b)
}
