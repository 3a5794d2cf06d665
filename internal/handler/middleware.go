package handler

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/access"
	"github.com/Shivanand-hulikatti/eventhub/internal/metrics"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// CorrelationID reuses the caller's X-Request-ID or generates one, echoes it
// back and stores a request-scoped logger in the context.
func CorrelationID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()
			next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Logger is the access log. It logs through the request-scoped logger, so it
// must run after CorrelationID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rw.status).
			Int("bytes", rw.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// CORS allows any origin and answers preflight requests directly.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessGate rejects blacklisted callers with 403 before any handler runs.
// Whitelisted callers are let through without consulting the blacklist.
func AccessGate(gate *access.Gate, exposeErrors bool) func(http.Handler) http.Handler {
	rs := responder{exposeErrors: exposeErrors}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := gate.Authorize(r.Context(), access.HostOf(r.RemoteAddr))
			if err != nil {
				rs.fail(w, r, err)
				return
			}
			if decision == access.Deny {
				metrics.AccessDenied.Inc()
				writeError(w, r, http.StatusForbidden,
					model.ErrorResponse{Message: "Your IP is blacklisted."}, access.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterIdleTTL      = 15 * time.Minute
	limiterCleanupEvery = 5 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per client address.
type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMinute int
}

func newLimiterStore(perMinute int) *limiterStore {
	return &limiterStore{limiters: make(map[string]*limiterEntry), perMinute: perMinute}
}

func (s *limiterStore) limiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	interval := time.Minute / time.Duration(s.perMinute)
	l := rate.NewLimiter(rate.Every(interval), s.perMinute)
	s.limiters[key] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

// cleanup drops entries idle for longer than limiterIdleTTL.
func (s *limiterStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterStore) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.cleanup(now)
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit allows perMinute requests per client address, with a burst of the
// same size. A non-positive perMinute disables limiting. The idle-entry
// sweeper stops when ctx is cancelled.
func RateLimit(ctx context.Context, perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	store := newLimiterStore(perMinute)
	go store.cleanupLoop(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.limiter(access.HostOf(r.RemoteAddr), time.Now()).Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				writeError(w, r, http.StatusTooManyRequests,
					model.ErrorResponse{Message: "Too many requests"}, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
