package server

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/api"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}

// RecoveryMiddleware turns a panic into a generic 500.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			"request_id", c.GetString(ctxRequestID),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

const maxSanitizedBody = 1 << 20

// SanitizeInputMiddleware strips markup from top-level string fields of JSON
// write requests.
func SanitizeInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSanitizedBody)
		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid body"})
			return
		}

		var body map[string]any
		if err := json.Unmarshal(buf, &body); err != nil {
			// Not an object; let binding report it.
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		for k, v := range body {
			if s, ok := v.(string); ok {
				// The policy escapes entities; the value is stored as text.
				body[k] = html.UnescapeString(policy.Sanitize(s))
			}
		}

		clean, err := json.Marshal(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(clean))
		c.Request.ContentLength = int64(len(clean))

		c.Next()
	}
}
