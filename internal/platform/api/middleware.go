package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/CXBuilder/flow-config/internal/common/alert"
	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/auth"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyActor is the key for the authenticated actor
const ContextKeyActor ContextKey = "actor"

// AuthMiddleware provides authentication and authorization middleware
type AuthMiddleware struct {
	verifier *auth.Verifier
	groups   access.Groups
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier *auth.Verifier, groups access.Groups) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		groups:   groups,
	}
}

// RequireAuth ensures the request carries a valid bearer token and puts the
// derived actor on the request context. Group membership is evaluated here,
// but a token with no recognized groups still passes; operations that need
// a level deny it themselves so the UI gets a structured error.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			WriteUnauthorized(w, "Authentication required")
			return
		}

		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			slog.Debug("Token verification failed", "error", err)
			WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		actor := auth.ActorFromClaims(claims, m.groups)
		ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLevel ensures the actor meets a minimum access level
func (m *AuthMiddleware) RequireLevel(min access.Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActor(r.Context())
			if !actor.Level.AtLeast(min) {
				WriteForbidden(w, "Insufficient access level")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRuntimeKey gates the contact-flow runtime endpoints behind a static
// bearer key. The endpoints are disabled entirely when no key is configured.
func RequireRuntimeKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				WriteNotFound(w, "Runtime endpoint not enabled")
				return
			}

			token := extractBearerToken(r)
			if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
				WriteUnauthorized(w, "Invalid runtime key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recoverer converts panics into 500 responses and raises an alert so
// unhandled failures reach an operator.
func Recoverer(notifier alert.Notifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
					slog.Error("Recovered from panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(debug.Stack()))
					notifier.NotifyError(r.Context(), "flow-config unhandled error", err)
					WriteInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GetActor returns the authenticated actor from the context. A missing
// actor has level None.
func GetActor(ctx context.Context) access.Actor {
	actor, _ := ctx.Value(ContextKeyActor).(access.Actor)
	return actor
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
