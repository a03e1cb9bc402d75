package http

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/proto"
)

const (
	// ContextKeyRequestID is the context key for storing the request id.
	ContextKeyRequestID = "request_id"
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"
)

// RequestIDMiddleware propagates the caller's request id or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c.GetHeader(HeaderRequestID))
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(ContextKeyRequestID)).
			Msg("http request")
	}
}

// RateLimitMiddleware rejects requests from clients exceeding their token bucket.
func RateLimitMiddleware(limiter *IPRateLimiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logger.Debug().Str("ip", ip).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, proto.ErrorResponse{
				Error: "too many requests",
				Code:  core.ErrCodeRateLimited,
			})
			return
		}
		c.Next()
	}
}

func requestID(incoming string) string {
	if incoming == "" || len(incoming) > 64 {
		return uuid.NewString()
	}
	return incoming
}

// wrapPlain applies the request id, access log and rate limit of the gin API
// to a handler mounted outside gin.
func wrapPlain(next http.Handler, limiter *IPRateLimiter, logger *zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestID(r.Header.Get(HeaderRequestID))
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Str("request_id", id).
				Msg("http request")
		}()

		if limiter != nil {
			ip := remoteIP(r)
			if !limiter.Allow(ip) {
				logger.Debug().Str("ip", ip).Msg("rate limit exceeded")
				writeJSON(rec, http.StatusTooManyRequests, proto.ErrorResponse{
					Error: "too many requests",
					Code:  core.ErrCodeRateLimited,
				})
				return
			}
		}

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder remembers the status code and keeps the connection hijackable.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
