package http

import (
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/rogerio-castellano/bakery-api/internal/http/ban"
	rl "github.com/rogerio-castellano/bakery-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bakery-api/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

type errorBody struct {
	Error string `json:"error"`
}

// RequestID takes the incoming X-Request-ID or mints a uuid, echoes it on the
// response and adds it to the request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		l := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

func AccessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		event := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			event = hlog.FromRequest(r).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
}

// Recoverer turns a panic into a JSON 500. http.ErrAbortHandler is re-raised
// so net/http can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			hlog.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies a client by IP. RealIP has already rewritten
// RemoteAddr when a proxy header is present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles each client with limiter. With an enabled tracker,
// throttled requests count as strikes and banned clients get 403 until the
// ban expires.
func RateLimit(limiter *rl.Limiter, tracker *ban.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ctx := r.Context()

			banned, err := tracker.IsBanned(ctx, key)
			if err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("ban lookup failed")
			}
			if banned {
				metrics.RateLimited.WithLabelValues("banned").Inc()
				writeError(w, r, http.StatusForbidden, "client is temporarily banned")
				return
			}

			ok, retryAfter := limiter.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			metrics.RateLimited.WithLabelValues("throttled").Inc()
			if nowBanned, err := tracker.Strike(ctx, key, r.URL.Path); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("strike not recorded")
			} else if nowBanned {
				metrics.RateLimited.WithLabelValues("banned").Inc()
				writeError(w, r, http.StatusForbidden, "client is temporarily banned")
				return
			}

			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
