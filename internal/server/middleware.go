package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	"survey-subaccounts/internal/common/errors"
	"survey-subaccounts/internal/common/logger"
	"survey-subaccounts/internal/common/metrics"
)

const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "requestId"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one is outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestIDFromContext returns the request id set by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestID propagates X-Request-ID, generating one when the caller sent none.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

// Recover turns a panic into the generic 500 error envelope.
func Recover(log logger.Logger) Middleware {
	errorHandler := errors.NewErrorHandler(log)
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
				log.Error("Recovered from panic", map[string]interface{}{
					"panic":     fmt.Sprint(rec),
					"stack":     string(debug.Stack()),
					"requestId": RequestIDFromContext(r.Context()),
				})
				errorHandler.HandleHTTPError(w, r, errors.NewInternalError(fmt.Errorf("%v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs every request and counts it by matched route and status.
func AccessLog(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      route,
				"status":     rec.status,
				"bytes":      rec.bytes,
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  RequestIDFromContext(r.Context()),
			}
			if rec.status >= http.StatusInternalServerError {
				log.Warn("HTTP request completed with server error", fields)
				return
			}
			log.Info("HTTP request", fields)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
