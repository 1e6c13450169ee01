package ports

import (
	"context"
	"errors"

	"wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store-level outcomes. Adapters return these (optionally wrapped) so the
// service layer can tell them apart from infrastructure failures.
var (
	ErrNotFound        = errors.New("wallet not found")
	ErrVersionConflict = errors.New("wallet version conflict")
)

// ErrBalanceOutOfRange is returned by durable stores for balances their
// NUMERIC(19,4) column would round or overflow. Nothing is written.
var ErrBalanceOutOfRange = errors.New("wallet balance out of storable range")

// WalletStore is durable keyed storage for wallets with optimistic
// concurrency on the Version stamp.
type WalletStore interface {
	// Get returns the current persisted wallet or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// ConditionalPut stores newBalance with version expectedVersion+1 only if
	// the stored version still equals expectedVersion, and returns the new
	// version. Otherwise nothing is written and ErrVersionConflict is returned.
	// Stores with a bounded column return ErrBalanceOutOfRange instead of
	// rounding, so the committed balance always equals newBalance.
	ConditionalPut(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int64) (int64, error)
}

// WalletProvisioner creates wallets. Used by seeding and tests, never by the
// mutation path.
type WalletProvisioner interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
}
