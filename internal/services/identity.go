package services

import (
	"context"
	"errors"
	"strings"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

type userProfileStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type identityService struct {
	Store userProfileStore
}

// NewIdentityService resolves dashboard identities. store may be nil, in which case only
// token claims are consulted.
func NewIdentityService(store userProfileStore) *identityService {
	return &identityService{
		Store: store,
	}
}

// Resolve builds the caller's identity. Token claims win; the user profile fills in
// whatever the token does not carry.
func (s *identityService) Resolve(ctx context.Context, uid, roleClaim, tenantClaim string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(uid) == "" {
		return models.Identity{}, errs.NewForbiddenError("missing user id")
	}

	role, tenant := roleClaim, tenantClaim
	if (role == "" || tenant == "") && s.Store != nil {
		user, err := s.Store.GetUser(ctx, uid)
		var nf *errs.NotFoundError
		switch {
		case errors.As(err, &nf):
			log.Debug("no user profile for identity", "uid", uid)
		case err != nil:
			log.Error("failed to load user profile", "error", err)
			return models.Identity{}, err
		default:
			if role == "" {
				role = user.Role
			}
			if tenant == "" {
				tenant = user.TenantDomain
			}
		}
	}

	if role == "" {
		return models.Identity{}, errs.NewForbiddenError("no dashboard role assigned")
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		log.Warn("rejecting unknown role", "role", role)
		return models.Identity{}, errs.NewForbiddenError("unknown dashboard role")
	}

	return models.Identity{UserID: uid, Role: parsed, TenantDomain: tenant}, nil
}
