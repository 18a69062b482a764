// Package registry holds the process-wide catalog of dashboard widgets. A Registry is
// immutable once built and safe to share between goroutines.
package registry

import (
	"fmt"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

// Item pairs widget metadata with the client component that renders it.
type Item struct {
	Meta      models.WidgetMeta `json:"meta"`
	Component string            `json:"component"`
}

type Registry struct {
	items []Item
	index map[string]int
}

// New validates items and freezes them in registration order.
func New(items ...Item) (*Registry, error) {
	r := &Registry{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
		if _, dup := r.index[it.Meta.ID]; dup {
			return nil, errs.NewAlreadyExistsError("duplicate widget id: " + it.Meta.ID)
		}
		it.Meta.RolesAllowed = models.NewRoleSet(it.Meta.RolesAllowed.Slice()...)
		r.index[it.Meta.ID] = len(r.items)
		r.items = append(r.items, it)
	}
	return r, nil
}

// MustNew is New for statically known catalogs.
func MustNew(items ...Item) *Registry {
	r, err := New(items...)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

func validateItem(it Item) error {
	m := it.Meta
	if m.ID == "" {
		return errs.NewValidationError("widget id is required")
	}
	if m.DefaultSize.W < 1 || m.DefaultSize.H < 1 {
		return errs.NewValidationError(fmt.Sprintf("widget %q: default size must be positive", m.ID))
	}
	if m.MinSize.W < 1 || m.MinSize.H < 1 {
		return errs.NewValidationError(fmt.Sprintf("widget %q: min size must be positive", m.ID))
	}
	if m.MinSize.W > m.DefaultSize.W || m.MinSize.H > m.DefaultSize.H {
		return errs.NewValidationError(fmt.Sprintf("widget %q: min size exceeds default size", m.ID))
	}
	// A widget must fit the narrowest grid without going below its minimum width.
	if m.MinSize.W > models.MinCols() {
		return errs.NewValidationError(fmt.Sprintf("widget %q: min width %d exceeds %d columns", m.ID, m.MinSize.W, models.MinCols()))
	}
	for r := range m.RolesAllowed {
		if !r.Valid() {
			return errs.NewValidationError(fmt.Sprintf("widget %q: unknown role %q", m.ID, r))
		}
	}
	return nil
}

// WidgetsForRole returns the widgets allowed for role, in registration order.
func (r *Registry) WidgetsForRole(role models.Role) []Item {
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		if it.Meta.AllowedFor(role) {
			out = append(out, it)
		}
	}
	return out
}

func (r *Registry) Lookup(id string) (Item, bool) {
	i, ok := r.index[id]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

// Allowed reports whether id is registered and allowed for role.
func (r *Registry) Allowed(role models.Role, id string) bool {
	it, ok := r.Lookup(id)
	return ok && it.Meta.AllowedFor(role)
}

func (r *Registry) Items() []Item {
	return append([]Item(nil), r.items...)
}

func (r *Registry) Len() int { return len(r.items) }
