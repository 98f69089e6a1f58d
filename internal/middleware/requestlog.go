package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"

	// RequestIDHeader carries the per-request id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id (reusing the caller's
// X-Request-ID when present) and logs method, path, status code, and
// duration once the handler returns.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if reqID == "" {
				reqID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)
			r = r.WithContext(context.WithValue(r.Context(), ContextKeyRequestID, reqID))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("http request",
				zap.String("request_id", reqID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// RequestIDFromContext extracts the request id from the request context.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyRequestID).(string)
	return v
}
