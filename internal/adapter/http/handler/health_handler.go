package handler

import (
	"context"
	"net/http"
	"time"

	"wallet-service/internal/adapter/http/dto"
	"wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck pings every dependency and reports 503 if any is down.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		resp := dto.HealthResponse{
			Status:       "healthy",
			Dependencies: make(map[string]dto.DependencyStatus, len(checkers)),
		}
		httpCode := http.StatusOK

		for _, checker := range checkers {
			if err := checker.Ping(ctx); err != nil {
				resp.Dependencies[checker.Name()] = dto.DependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
				httpCode = http.StatusServiceUnavailable
				continue
			}
			resp.Dependencies[checker.Name()] = dto.DependencyStatus{Status: "healthy"}
		}

		c.JSON(httpCode, resp)
	}
}
