// Package sqlite is a single-file WalletStore backend built on gorm.
package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS wallets (
	id         TEXT PRIMARY KEY,
	balance    TEXT NOT NULL CHECK (CAST(balance AS REAL) >= 0),
	version    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`

// Open opens (or creates) the database at path. ":memory:" is accepted.
func Open(path string, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite serializes writers; one connection also keeps ":memory:" databases
	// from splitting per connection.
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("path", path).Msg("SQLite database opened")
	return db, nil
}

// EnsureSchema creates the wallets table if it does not exist.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(schemaDDL).Error; err != nil {
		return fmt.Errorf("ensure wallets schema: %w", err)
	}
	return nil
}

// HealthCheck implements ports.HealthChecker for SQLite.
type HealthCheck struct {
	db *gorm.DB
}

// NewHealthCheck creates a SQLite health checker.
func NewHealthCheck(db *gorm.DB) *HealthCheck {
	return &HealthCheck{db: db}
}

// Ping checks the database handle.
func (h *HealthCheck) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "sqlite"
}
