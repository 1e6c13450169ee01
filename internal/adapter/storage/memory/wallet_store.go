// Package memory is an in-process WalletStore for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStore keeps wallets in a map. The mutex makes ConditionalPut a
// linearizable compare-and-swap; the engine itself never locks.
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]domain.Wallet
}

// NewWalletStore returns an empty store.
func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[uuid.UUID]domain.Wallet)}
}

// Create inserts a new wallet. Existing IDs are rejected.
func (s *WalletStore) Create(_ context.Context, w *domain.Wallet) error {
	if w.Balance.IsNegative() {
		return fmt.Errorf("insert wallet %s: negative balance", w.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[w.ID]; ok {
		return fmt.Errorf("insert wallet %s: already exists", w.ID)
	}
	s.wallets[w.ID] = *w
	return nil
}

// Get returns a copy of the stored wallet.
func (s *WalletStore) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	w, ok := s.wallets[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ports.ErrNotFound
	}
	return &w, nil
}

// ConditionalPut swaps in newBalance if the stored version equals
// expectedVersion.
func (s *WalletStore) ConditionalPut(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok || w.Version != expectedVersion {
		return 0, ports.ErrVersionConflict
	}
	w.Balance = newBalance
	w.Version = expectedVersion + 1
	s.wallets[id] = w
	return w.Version, nil
}
