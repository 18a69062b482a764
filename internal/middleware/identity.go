package middleware

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

type identityResolver interface {
	Resolve(ctx context.Context, uid, roleClaim, tenantClaim string) (models.Identity, error)
}

type identityMiddleware struct {
	Resolver identityResolver
	Response response.ResponseHandler
}

func NewIdentityMiddleware(resolver identityResolver, resp response.ResponseHandler) *identityMiddleware {
	return &identityMiddleware{Resolver: resolver, Response: resp}
}

const identityKey contextKey = "identity"

// Identity resolves the dashboard identity of the authenticated principal and adds it,
// plus uid, role and tenant log attributes, to the request context. Must run after an auth
// middleware.
func (m *identityMiddleware) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			m.Response.HandleError(w, r, errs.NewForbiddenError("unauthenticated request"))
			return
		}

		id, err := m.Resolver.Resolve(r.Context(), p.UID, p.Role, p.Tenant)
		if err != nil {
			m.Response.HandleError(w, r, err)
			return
		}

		_, ctx := logger.With(r.Context(), "uid", id.UserID, "role", id.Role, "tenant", id.TenantDomain)
		ctx = WithIdentity(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by the Identity middleware.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}
