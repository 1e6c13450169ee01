package ports

import "context"

// HealthChecker is one dependency listed by GET /health. Ping returning nil
// means the wallet API can rely on it.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
