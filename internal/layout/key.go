package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

const (
	keyPrefix     = "dashboard:"
	defaultTenant = "default"
)

// KeyInput identifies whose dashboard a layout key addresses.
type KeyInput struct {
	TenantDomain string
	UserID       string
	Role         models.Role
}

// KeyParts is a decoded layout key.
type KeyParts struct {
	Tenant string
	UserID string
	Role   models.Role
}

// DashboardLayoutKey derives the store key for a (tenant, user, role) triple.
//
// Segments are length-prefixed ("<bytes>:<segment>") after the "dashboard:" namespace, so
// no tenant or user id can be crafted to collide with another triple:
//
//	dashboard:4:acme:2:u1:7:student
func DashboardLayoutKey(in KeyInput) string {
	tenant := strings.ToLower(strings.TrimSpace(in.TenantDomain))
	if tenant == "" {
		tenant = defaultTenant
	}

	var b strings.Builder
	b.WriteString(keyPrefix)
	for i, seg := range []string{tenant, in.UserID, string(in.Role)} {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(len(seg)))
		b.WriteByte(':')
		b.WriteString(seg)
	}
	return b.String()
}

// KeyFor is DashboardLayoutKey for an authenticated identity.
func KeyFor(id models.Identity) string {
	return DashboardLayoutKey(KeyInput{TenantDomain: id.TenantDomain, UserID: id.UserID, Role: id.Role})
}

// ParseDashboardLayoutKey reverses DashboardLayoutKey.
func ParseDashboardLayoutKey(key string) (KeyParts, error) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return KeyParts{}, errs.NewValidationError("layout key missing prefix: " + key)
	}

	segs := make([]string, 0, 3)
	for len(segs) < 3 {
		n, after, ok := strings.Cut(rest, ":")
		if !ok {
			return KeyParts{}, errs.NewValidationError("malformed layout key: " + key)
		}
		size, err := strconv.Atoi(n)
		if err != nil || size < 0 || size > len(after) {
			return KeyParts{}, errs.NewValidationError(fmt.Sprintf("bad segment length %q in layout key", n))
		}
		segs = append(segs, after[:size])
		rest = after[size:]
		if len(segs) < 3 {
			if !strings.HasPrefix(rest, ":") {
				return KeyParts{}, errs.NewValidationError("malformed layout key: " + key)
			}
			rest = rest[1:]
		}
	}
	if rest != "" {
		return KeyParts{}, errs.NewValidationError("trailing data in layout key: " + key)
	}

	return KeyParts{Tenant: segs[0], UserID: segs[1], Role: models.Role(segs[2])}, nil
}
