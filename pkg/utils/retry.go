package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// StatusError is returned by HTTP clients when the upstream answers with a non-2xx status.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: status %d, body: %s", e.Service, e.Code, e.Body)
}

// Retryable reports whether repeating the request could succeed: rate limits,
// request timeouts and server errors.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout || e.Code >= 500
}

type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	Timeout         time.Duration // per attempt, 0 = none
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        3,
		InitialInterval: 500 * time.Millisecond,
		Timeout:         60 * time.Second,
	}
}

// Retry runs op with exponential backoff. Non-retryable StatusErrors stop immediately.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	if policy.MaxTries == 0 {
		policy.MaxTries = 1
	}

	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}

	return backoff.Retry(ctx, func() (T, error) {
		attemptCtx := ctx
		if policy.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, policy.Timeout)
			defer cancel()
		}

		res, err := op(attemptCtx)
		if err == nil {
			return res, nil
		}
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(policy.MaxTries))
}
