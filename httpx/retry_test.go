package httpx

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", &StatusError{StatusCode: 429}, true},
		{"http 502", &StatusError{StatusCode: 502}, true},
		{"http 503", &StatusError{StatusCode: 503}, true},
		{"http 403", &StatusError{StatusCode: 403}, false},
		{"regular error", errors.New("something"), false},
		{"timeout", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestRetryDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{StatusCode: 503}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryDoExhausted(t *testing.T) {
	rc := fastRetry
	rc.MaxRetries = 2
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", &StatusError{StatusCode: 502}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
}

func TestRetryDoNonRetryable(t *testing.T) {
	calls := 0
	_, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		return "", errors.New("permanent error")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryDo(ctx, fastRetry, func() (string, error) {
		return "", &StatusError{StatusCode: 503}
	})
	assert.ErrorIs(t, err, context.Canceled)
}
