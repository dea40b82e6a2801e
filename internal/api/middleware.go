package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/bayesdx/internal/service"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID propagates the caller's X-Request-ID or generates one, echoes it
// on the response and tags the context as an API call.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := service.WithRequestID(r.Context(), id)
		ctx = service.WithSource(ctx, service.SourceAPI)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIKey rejects requests that do not present key as a bearer token
// or X-API-Key header. An empty key disables the check.
func RequireAPIKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				presented = after
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				requestID := service.RequestIDFrom(r.Context())
				logger.Warn("unauthorized request",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
				)
				writeErrorEnvelope(w, http.StatusUnauthorized, CodeUnauthorized, "missing or invalid API key", requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog writes one structured line per request.
func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("http request",
				zap.String("request_id", service.RequestIDFrom(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recoverer turns a handler panic into a 500 with the standard envelope.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				requestID := service.RequestIDFrom(r.Context())
				logger.Error("panic in handler",
					zap.String("request_id", requestID),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				writeErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "", requestID)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
