package ports

import (
	"context"
	"time"

	"wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationProcessor validates and applies one balance operation. A version
// conflict is reported, never retried.
type OperationProcessor interface {
	Apply(ctx context.Context, walletID uuid.UUID, kind domain.OperationType, amount decimal.Decimal) (*domain.Wallet, error)
}

// WalletReader is the read path for wallet state.
type WalletReader interface {
	Get(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
}

// IdempotencyCache holds one entry per client-supplied Idempotency-Key.
// Reserve claims a key atomically so overlapping retries cannot both run.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on a miss
	// Reserve stores value only if key is absent and reports whether it did.
	Reserve(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// Set replaces whatever is stored under key.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OperationRecorder receives the outcome of every Apply call.
type OperationRecorder interface {
	Record(operation string, outcome string, elapsed time.Duration)
}

// Outcomes passed to OperationRecorder.
const (
	OutcomeCommitted         = "committed"
	OutcomeConflict          = "conflict"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeNotFound          = "not_found"
	OutcomeInvalid           = "invalid"
	OutcomeError             = "error"
)
