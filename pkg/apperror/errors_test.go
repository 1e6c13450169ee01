package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New(CodeInsufficientFunds, "Insufficient funds", http.StatusBadRequest),
			expected: "[INSUFFICIENT_FUNDS] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap(CodeInternal, "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[INTERNAL_SERVER_ERROR] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap(CodeInternal, "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New(CodeInvalidAmount, "test", http.StatusBadRequest).Unwrap())
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440001")
	err := fmt.Errorf("apply: %w", WalletNotFound(id))

	assert.True(t, errors.Is(err, ErrWalletNotFound()))
	assert.False(t, errors.Is(err, ErrInsufficientFunds()))
	assert.False(t, errors.Is(ErrInvalidAmount(), fmt.Errorf("plain")))
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"WalletNotFound", ErrWalletNotFound(), "WALLET_NOT_FOUND", 404},
		{"InsufficientFunds", ErrInsufficientFunds(), "INSUFFICIENT_FUNDS", 400},
		{"InvalidOperationType", ErrInvalidOperationType(), "INVALID_OPERATION_TYPE", 400},
		{"InvalidAmount", ErrInvalidAmount(), "INVALID_AMOUNT", 400},
		{"ConcurrentModification", ErrConcurrentModification(), "CONCURRENT_MODIFICATION", 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidJSON", ErrInvalidJSON(), "INVALID_JSON", 400},
		{"Validation", Validation("walletId is required"), "VALIDATION_ERROR", 400},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_LIMIT_EXCEEDED", 429},
		{"PayloadTooLarge", ErrPayloadTooLarge(), "PAYLOAD_TOO_LARGE", 413},
		{"IdempotencyInProgress", ErrIdempotencyInProgress(), "IDEMPOTENCY_IN_PROGRESS", 409},
		{"IdempotencyKeyReused", ErrIdempotencyKeyReused(), "IDEMPOTENCY_KEY_REUSED", 422},
		{"AmountOutOfRange", AmountOutOfRange(), "INVALID_AMOUNT", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInternalError(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	err := InternalError(inner)

	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.Equal(t, "Internal server error", err.Message)
	assert.True(t, errors.Is(err, inner))
}

func TestWalletNotFound_NamesWallet(t *testing.T) {
	id := uuid.New()
	err := WalletNotFound(id)
	assert.Contains(t, err.Message, id.String())
	assert.Equal(t, CodeWalletNotFound, err.Code)
}
