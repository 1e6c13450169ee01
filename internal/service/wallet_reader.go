package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"
	"wallet-service/pkg/apperror"

	"github.com/google/uuid"
)

// WalletReaderImpl implements ports.WalletReader directly over the store.
type WalletReaderImpl struct {
	store ports.WalletStore
}

// NewWalletReader creates a new WalletReaderImpl.
func NewWalletReader(store ports.WalletStore) *WalletReaderImpl {
	return &WalletReaderImpl{store: store}
}

// Get returns the current wallet state.
func (r *WalletReaderImpl) Get(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := r.store.Get(ctx, walletID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperror.WalletNotFound(walletID)
		}
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}
