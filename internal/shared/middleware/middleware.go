package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"circustix/internal/shared/utils/response"
	"circustix/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = response.RequestIDKey
)

// RequestID tags every request with an id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger logs one line per request with status and duration
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l := log
		if id := GetRequestID(c); id != "" {
			l = log.WithRequestID(id)
		}
		if len(c.Errors) > 0 {
			l.LogHTTPError(c, c.Errors.Last(), c.Writer.Status())
			return
		}
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// Recovery turns a panic into a 500 envelope
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.LogHTTPError(c, fmt.Errorf("panic: %v", recovered), http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		c.Abort()
	})
}

// CORS allows the storefront to call the API from the browser
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
