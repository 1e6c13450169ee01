package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type walletRecord struct {
	ID        string `gorm:"primaryKey"`
	Balance   string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (walletRecord) TableName() string { return "wallets" }

// WalletStore implements ports.WalletStore and ports.WalletProvisioner.
type WalletStore struct {
	db *gorm.DB
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// Create inserts a new wallet.
func (s *WalletStore) Create(ctx context.Context, w *domain.Wallet) error {
	if !domain.FitsBalance(w.Balance) {
		return fmt.Errorf("insert wallet %s: %w", w.ID, ports.ErrBalanceOutOfRange)
	}
	now := time.Now().UTC()
	rec := walletRecord{
		ID:        w.ID.String(),
		Balance:   w.Balance.String(),
		Version:   w.Version,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// Get fetches a wallet by its UUID.
func (s *WalletStore) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	var rec walletRecord
	err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}

	balance, err := decimal.NewFromString(rec.Balance)
	if err != nil {
		return nil, fmt.Errorf("parse wallet balance %q: %w", rec.Balance, err)
	}
	return &domain.Wallet{ID: id, Balance: balance, Version: rec.Version}, nil
}

// ConditionalPut writes newBalance only while the row is still at
// expectedVersion.
func (s *WalletStore) ConditionalPut(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal, expectedVersion int64) (int64, error) {
	if !domain.FitsBalance(newBalance) {
		return 0, ports.ErrBalanceOutOfRange
	}
	result := s.db.WithContext(ctx).
		Model(&walletRecord{}).
		Where("id = ? AND version = ?", id.String(), expectedVersion).
		Updates(map[string]any{
			"balance":    newBalance.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("conditional update wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ports.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}
