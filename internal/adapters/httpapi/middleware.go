package httpapi

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"burnrate/internal/application/auth"
	"burnrate/internal/application/logging"
	"burnrate/internal/domain/shared"
	"burnrate/internal/infrastructure/config"
)

const (
	headerAPIKey        = "X-API-Key"
	headerAdminKey      = "X-Admin-Key"
	headerCorrelationID = "X-Correlation-Id"
)

// statusWriter captures the response status for metrics and access logs.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ipLimiters keeps one token bucket per client IP. Buckets are never
// evicted; the key space is bounded by the reachable client population.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiters(cfg config.RateLimitConfig) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    cfg.Burst,
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// clientIP prefers the last X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withRequestContext is the outermost wrapper: it mints or echoes the
// correlation id, stamps the request logger, resolves CORS, enforces the
// per-IP limiter, extracts credentials into the context, and applies the
// per-request deadline before handing off to the router.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(headerCorrelationID)
		if correlationID == "" {
			correlationID = shared.NewID()
		}
		w.Header().Set(headerCorrelationID, correlationID)

		ctx := logging.WithLogger(r.Context(), s.logger)
		ctx = logging.WithCorrelationID(ctx, correlationID)

		if !s.applyCORS(w, r) {
			return
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !s.limiters.allow(clientIP(r)) {
			s.httpMetrics.RecordRateLimited(r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
				Code:          "rate_limited",
				Message:       "too many requests",
				CorrelationID: correlationID,
			}})
			return
		}

		if key := r.Header.Get(headerAPIKey); key != "" {
			ctx = auth.WithAPIKey(ctx, key)
		}
		if s.isAdminRequest(r) {
			ctx = auth.WithAdmin(ctx)
		}

		if s.requestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
			defer cancel()
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAdminRequest compares the admin header in constant time. An empty
// configured key disables admin access entirely.
func (s *Server) isAdminRequest(r *http.Request) bool {
	if s.adminKey == "" {
		return false
	}
	got := r.Header.Get(headerAdminKey)
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.adminKey)) == 1
}

// applyCORS writes the CORS headers for allowed origins. It reports false
// only when the request must stop here (never for same-origin traffic).
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.corsOrigins) == 0 {
		return true
	}
	allowed := slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)
	if !allowed {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusForbidden)
			return false
		}
		return true
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Admin-Key, X-Correlation-Id")
	w.Header().Set("Access-Control-Max-Age", "300")
	return true
}

// instrument wraps a handler with per-route metrics. The registered
// pattern is the label, so cardinality stays bounded by the route table.
func (s *Server) instrument(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		s.httpMetrics.RecordHTTPRequest(r.Method, pattern, sw.status, time.Since(start).Seconds())
	}
}
