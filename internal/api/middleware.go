package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopfront/shopfront-server/internal/http/response"
	"github.com/shopfront/shopfront-server/internal/ratelimit"
	"github.com/shopfront/shopfront-server/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyClient contextKey = "client"

// requestLogger logs one line per request through the server's logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log(r.Context(), level, "HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
					"remote_ip", clientIP(r),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// rateLimitMiddleware rejects clients that exceed their per-IP budget with
// 429 Too Many Requests. The health check is exempt.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// withClientInfo records the caller's address and user agent so auth
// handlers can attach them to new sessions.
func withClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := service.ClientInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		ctx := context.WithValue(r.Context(), contextKeyClient, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientInfo returns what withClientInfo stored, or the zero value.
func clientInfo(ctx context.Context) service.ClientInfo {
	info, _ := ctx.Value(contextKeyClient).(service.ClientInfo)
	return info
}

// clientIP returns the request's remote host. middleware.RealIP has already
// replaced RemoteAddr with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
