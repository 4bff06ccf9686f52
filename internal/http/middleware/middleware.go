package middleware

import (
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/http/ban"
	rl "github.com/rogerio-castellano/bizmanage/internal/http/rate_limiter"
	"github.com/rs/zerolog"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.TokenClaims(r.Header.Get("Authorization")); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through only tokens carrying one of roles. It must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, claims.Role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter throttles each client address. With a Banner, clients that keep
// hitting the limit are banned for a while.
type RateLimiter struct {
	visitors *rl.Visitors
	banner   *ban.Banner
	log      zerolog.Logger
}

// NewRateLimiter builds the limiter; banner may be nil when Redis is not configured.
func NewRateLimiter(visitors *rl.Visitors, banner *ban.Banner, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{visitors: visitors, banner: banner, log: log}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if l.banner != nil {
			banned, err := l.banner.IsBanned(r.Context(), ip)
			if err != nil {
				l.log.Error().Err(err).Msg("ban lookup failed")
			} else if banned {
				http.Error(w, "Too many requests. You are temporarily banned.", http.StatusForbidden)
				return
			}
		}

		if !l.visitors.GetVisitor(ip).Allow() {
			if l.banner != nil {
				if _, err := l.banner.RecordStrike(r.Context(), ip, r.URL.Path); err != nil {
					l.log.Error().Err(err).Msg("could not record strike")
				}
			}
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger writes one line per request.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			ev := log.Info()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
