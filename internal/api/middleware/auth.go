package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MCASE28/planb-tier/internal/api/apierr"
	"github.com/MCASE28/planb-tier/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "host_session"

// SessionCookieName is the cookie carrying the host session token
const SessionCookieName = "host_session"

// HostAuth creates middleware requiring a valid host session
func HostAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalHostAuth extracts the host session if present but doesn't
// require it. Handlers use it to decide whether to redact host-only
// fields.
func OptionalHostAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if session, err := authService.ValidateSession(token); err == nil {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the host session token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the host session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// IsHost reports whether the request carries a valid host session
func IsHost(ctx context.Context) bool {
	return GetSession(ctx) != nil
}

// MustGetSession returns the host session or panics
func MustGetSession(ctx context.Context) *auth.Session {
	session := GetSession(ctx)
	if session == nil {
		panic("no host session in context - auth middleware not applied?")
	}
	return session
}
