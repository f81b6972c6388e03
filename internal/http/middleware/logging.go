// Package middleware holds the net/http middleware of the catalog API.
package middleware

import (
	"net/http"
	"time"

	"product-catalog/internal/logger"
)

type logOptions struct {
	skips map[string]struct{}
}

// LogOption configures LogRequests.
type LogOption func(*logOptions)

// WithSkips excludes exact paths from request logging.
func WithSkips(paths ...string) LogOption {
	return func(o *logOptions) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// LogRequests logs one line per request with status and latency.
func LogRequests(opts ...LogOption) func(http.Handler) http.Handler {
	o := &logOptions{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			logger.Infof("%s %s %d %dB %s rid=%s", r.Method, r.URL.Path, rec.status, rec.bytes,
				time.Since(start).Round(time.Microsecond), RequestIDFrom(r.Context()))
		})
	}
}
