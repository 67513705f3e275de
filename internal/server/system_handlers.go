package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}

// Metrics godoc
// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
