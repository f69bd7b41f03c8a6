package sheetsclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/googleapi"
)

const maxTries = 5

var (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 10 * time.Second
)

// withRetry runs op until it succeeds, fails permanently or runs out of tries.
// Quota and server errors from the Sheets API are retried with exponential backoff.
func withRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = retryInitialInterval
	expback.MaxInterval = retryMaxInterval

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !isRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(expback), backoff.WithMaxTries(maxTries))
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	// Transport errors
	return true
}
