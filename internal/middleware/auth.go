package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

// Custom claims set on Firebase users by the platform's admin tooling.
const (
	RoleClaim   = "role"
	TenantClaim = "tenant"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// Principal is the authenticated caller before a dashboard identity is resolved.
type Principal struct {
	UID    string
	Role   string
	Tenant string
}

// context key
type contextKey string

const principalKey contextKey = "principal"

func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("rejected id token", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		p := Principal{
			UID:    token.UID,
			Role:   stringClaim(token.Claims, RoleClaim),
			Tenant: stringClaim(token.Claims, TenantClaim),
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// DevAuth authenticates every request as p. It is only mounted when auth is disabled
// for local development.
func DevAuth(p Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// UID extracts the authenticated user id, empty when unauthenticated.
func UID(ctx context.Context) string {
	p, _ := PrincipalFrom(ctx)
	return p.UID
}

func stringClaim(claims map[string]any, name string) string {
	v, _ := claims[name].(string)
	return v
}
