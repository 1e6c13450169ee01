package postgres

import (
	"context"
	"fmt"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS wallets (
	id         UUID PRIMARY KEY,
	balance    NUMERIC(19, 4) NOT NULL CHECK (balance >= 0),
	version    BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the wallets table if it does not exist.
func EnsureSchema(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure wallets schema: %w", err)
	}
	return nil
}
