// Package storage selects the WalletStore backend named in configuration.
package storage

import (
	"context"
	"fmt"

	"wallet-service/config"
	"wallet-service/internal/adapter/storage/memory"
	"wallet-service/internal/adapter/storage/postgres"
	"wallet-service/internal/adapter/storage/sqlite"
	"wallet-service/internal/core/domain"
	"wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletBackend is a store that can also provision wallets.
type WalletBackend interface {
	ports.WalletStore
	ports.WalletProvisioner
}

// Backend bundles the opened store with its health check and cleanup.
type Backend struct {
	Store  WalletBackend
	Health ports.HealthChecker // nil for the memory driver
	Close  func()
}

// Open connects to the configured driver and ensures the schema exists.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Store:  postgres.NewWalletStore(pool),
			Health: postgres.NewHealthCheck(pool),
			Close:  pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &Backend{
			Store:  sqlite.NewWalletStore(db),
			Health: sqlite.NewHealthCheck(db),
			Close:  func() { sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory wallet store, state is lost on exit")
		return &Backend{
			Store: memory.NewWalletStore(),
			Close: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// SeedWallets creates one wallet per entry, failing on the first error.
func SeedWallets(ctx context.Context, p ports.WalletProvisioner, balances map[uuid.UUID]decimal.Decimal) error {
	for id, balance := range balances {
		if err := p.Create(ctx, domain.NewWallet(id, balance)); err != nil {
			return fmt.Errorf("seed wallet %s: %w", id, err)
		}
	}
	return nil
}
