package models

import (
	"strings"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
)

// Role is the platform role a dashboard is built for.
type Role string

const (
	RoleStudent             Role = "student"
	RoleAdvisor             Role = "advisor"
	RoleCoordinator         Role = "coordinator"
	RoleDepartmentHead      Role = "department_head"
	RoleDepartmentCommittee Role = "department_committee"
)

var allRoles = []Role{
	RoleStudent,
	RoleAdvisor,
	RoleCoordinator,
	RoleDepartmentHead,
	RoleDepartmentCommittee,
}

// AllRoles returns every known role in declaration order.
func AllRoles() []Role {
	return append([]Role(nil), allRoles...)
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole accepts a role slug; "department-head" and "Department_Head" both map to RoleDepartmentHead.
func ParseRole(s string) (Role, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	r := Role(slug)
	if !r.Valid() {
		return "", errs.NewValidationError("unknown role: " + s)
	}
	return r, nil
}

// RoleSet is a set of roles checked by membership.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Slice returns the members in declaration order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
