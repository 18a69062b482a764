package models

// Size is a widget footprint in grid units.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// WidgetMeta describes a dashboard widget. Values are defined once at startup and never mutated.
type WidgetMeta struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	RolesAllowed RoleSet `json:"-"`
	DefaultSize  Size    `json:"defaultSize"`
	MinSize      Size    `json:"minSize"`
}

// AllowedFor reports whether the widget may appear on a dashboard for role.
func (m WidgetMeta) AllowedFor(role Role) bool {
	return m.RolesAllowed.Has(role)
}
