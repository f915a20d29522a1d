package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/humanorbot/internal/api/apierr"
	"github.com/mcoot/humanorbot/internal/services/auth"
)

type contextKey string

const agentContextKey contextKey = "agent"

// AgentAuth creates authentication middleware for the agent API
func AgentAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), agentContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the agent token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to the legacy agent header
	return r.Header.Get("X-Agent-Token")
}

// GetAgent returns the authenticated agent session from the request
// context
func GetAgent(ctx context.Context) *auth.AgentSession {
	session, _ := ctx.Value(agentContextKey).(*auth.AgentSession)
	return session
}

// MustGetAgent returns the authenticated agent session or panics
func MustGetAgent(ctx context.Context) *auth.AgentSession {
	session := GetAgent(ctx)
	if session == nil {
		panic("no agent in context - auth middleware not applied?")
	}
	return session
}
