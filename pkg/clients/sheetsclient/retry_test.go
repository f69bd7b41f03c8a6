package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastRetries(t *testing.T) {
	initial, maxInterval := retryInitialInterval, retryMaxInterval
	retryInitialInterval, retryMaxInterval = time.Millisecond, 2*time.Millisecond
	t.Cleanup(func() {
		retryInitialInterval, retryMaxInterval = initial, maxInterval
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server error", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"wrapped server error", fmt.Errorf("failed: %w", &googleapi.Error{Code: 500}), true},
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"canceled", context.Canceled, false},
		{"transport", errors.New("connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryable(tt.err))
		})
	}
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	fastRetries(t)

	calls := 0
	v, err := withRetry(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	fastRetries(t)

	calls := 0
	_, err := withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusNotFound, Message: "no such sheet"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	var apiErr *googleapi.Error
	assert.ErrorAs(t, err, &apiErr)
}

func TestWithRetry_GivesUpAfterMaxTries(t *testing.T) {
	fastRetries(t)

	calls := 0
	_, err := withRetry(context.Background(), func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusTooManyRequests}
	})

	require.Error(t, err)
	assert.Equal(t, maxTries, calls)
}
