package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"document-portal/internal/domain"
	"document-portal/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by the next handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags each request with an id, logs it and records HTTP
// metrics labelled by route template. m may be nil.
func RequestLogger(logger domain.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	log := logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			route := routeTemplate(r)
			elapsed := time.Since(start)

			if m != nil {
				m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
				m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
			}

			log.Info("HTTP request",
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", requestID,
			)
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
