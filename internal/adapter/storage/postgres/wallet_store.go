package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletStore implements ports.WalletStore and ports.WalletProvisioner.
// Balances travel as text so NUMERIC precision is never routed through
// float64.
type WalletStore struct {
	pool Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Create inserts a new wallet.
func (s *WalletStore) Create(ctx context.Context, w *domain.Wallet) error {
	if !domain.FitsBalance(w.Balance) {
		return fmt.Errorf("insert wallet %s: %w", w.ID, ports.ErrBalanceOutOfRange)
	}
	query := `INSERT INTO wallets (id, balance, version) VALUES ($1, $2::numeric, $3)`

	if _, err := s.pool.Exec(ctx, query, w.ID, w.Balance.String(), w.Version); err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// Get fetches a wallet by its UUID.
func (s *WalletStore) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, balance::text, version FROM wallets WHERE id = $1`

	var (
		w       domain.Wallet
		balance string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&w.ID, &balance, &w.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}

	w.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse wallet balance %q: %w", balance, err)
	}
	return &w, nil
}

// ConditionalPut writes newBalance only while the row is still at
// expectedVersion. Zero affected rows means another writer got there first.
func (s *WalletStore) ConditionalPut(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int64) (int64, error) {
	if !domain.FitsBalance(newBalance) {
		return 0, ports.ErrBalanceOutOfRange
	}
	query := `UPDATE wallets SET balance = $1::numeric, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3`

	tag, err := s.pool.Exec(ctx, query, newBalance.String(), id, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("conditional update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ports.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}
