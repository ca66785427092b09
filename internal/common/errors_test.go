package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSessionExpired(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "status code", err: errors.New("googleapi: Error 401: Request had invalid credentials"), want: true},
		{name: "unauthorized", err: errors.New("Unauthorized"), want: true},
		{name: "invalid authentication", err: errors.New("request had invalid authentication credentials"), want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("list events: %w", ErrSessionExpired), want: true},
		{name: "other error", err: errors.New("connection refused"), want: false},
		{name: "not found", err: ErrNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSessionExpired(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	inner := errors.New("token revoked")
	err := NewUserError("Sign in to Google again", inner)

	assert.Equal(t, "Sign in to Google again: token revoked", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	assert.True(t, errors.As(err, &userErr))
	assert.Equal(t, "Sign in to Google again", userErr.UserMessage)

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(fmt.Errorf("insert: %w", ErrCalendarUnavailable)))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("boom"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("boom"), Retryable: false}))
	assert.False(t, IsRetryable(errors.New("bad request")))
	assert.False(t, IsRetryable(context.Canceled))
}
