package postgres

import (
	"context"
	"errors"
	"fmt"
)

const walletsTableQuery = `SELECT to_regclass('public.wallets') IS NOT NULL`

var errSchemaMissing = errors.New("wallets table missing")

// HealthCheck reports postgres as healthy when it answers and the wallets
// table exists, so a server started against an unmigrated database shows
// up as degraded.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var present bool
	if err := h.pool.QueryRow(ctx, walletsTableQuery).Scan(&present); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	if !present {
		return errSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
