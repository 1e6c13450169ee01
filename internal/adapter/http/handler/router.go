package handler

import (
	"net/http"
	"time"

	"wallet-service/internal/adapter/http/middleware"
	redisStore "wallet-service/internal/adapter/storage/redis"
	"wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20 // 1 MB

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Processor        ports.OperationProcessor
	Reader           ports.WalletReader
	RateLimitStore   *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimitRules   map[string]middleware.RateLimitRule
	IdempotencyCache ports.IdempotencyCache // nil = Idempotency-Key ignored
	IdempotencyTTL   time.Duration
	HealthCheckers   []ports.HealthChecker
	MetricsPath      string       // empty = not exposed
	MetricsHandler   http.Handler // served at MetricsPath
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsPath != "" && deps.MetricsHandler != nil {
		r.GET(deps.MetricsPath, gin.WrapH(deps.MetricsHandler))
	}

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	noop := func(c *gin.Context) { c.Next() }

	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return noop
		}
		rule, ok := deps.RateLimitRules[group]
		if !ok {
			return noop
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	idem := noop
	if deps.IdempotencyCache != nil {
		idem = middleware.Idempotency(deps.IdempotencyCache, deps.IdempotencyTTL, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.Processor, deps.Reader)

	wallets := r.Group("/api/v1/wallets")
	{
		wallets.POST("", rl(middleware.GroupOperations), idem, walletHandler.ApplyOperation)
		wallets.GET("/:id", rl(middleware.GroupReads), walletHandler.GetWallet)
	}

	return r
}
