package models

import (
	"encoding/json"
	"slices"
	"time"
)

// LayoutSchemaVersion is the only persisted layout shape this build understands.
const LayoutSchemaVersion = 1

// Breakpoint names a responsive grid profile.
type Breakpoint string

const (
	BreakpointLarge      Breakpoint = "lg"
	BreakpointMedium     Breakpoint = "md"
	BreakpointSmall      Breakpoint = "sm"
	BreakpointExtraSmall Breakpoint = "xs"
)

var breakpointCols = map[Breakpoint]int{
	BreakpointLarge:      12,
	BreakpointMedium:     10,
	BreakpointSmall:      6,
	BreakpointExtraSmall: 4,
}

// Breakpoints returns the breakpoints from widest to narrowest.
func Breakpoints() []Breakpoint {
	return []Breakpoint{BreakpointLarge, BreakpointMedium, BreakpointSmall, BreakpointExtraSmall}
}

// Cols is the column count of the breakpoint's grid, 0 for unknown names.
func (b Breakpoint) Cols() int { return breakpointCols[b] }

func (b Breakpoint) Valid() bool {
	_, ok := breakpointCols[b]
	return ok
}

// MinCols is the column count of the narrowest breakpoint.
func MinCols() int { return breakpointCols[BreakpointExtraSmall] }

// GridItemLayout is one widget's position on one breakpoint's grid.
type GridItemLayout struct {
	I      string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	Static bool   `json:"static"`
}

// Bottom is the first free row below the item.
func (g GridItemLayout) Bottom() int { return g.Y + g.H }

type GridLayouts map[Breakpoint][]GridItemLayout

// IDs returns every distinct widget id placed on any breakpoint.
func (l GridLayouts) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, items := range l {
		for _, it := range items {
			ids[it.I] = struct{}{}
		}
	}
	return ids
}

// DashboardLayoutState is the persisted dashboard of one (tenant, user, role).
// EnabledWidgetIDs is a set kept as an ordered, duplicate-free list.
type DashboardLayoutState struct {
	Version          int                        `json:"version"`
	Role             Role                       `json:"role"`
	EnabledWidgetIDs []string                   `json:"enabledWidgetIds"`
	Layouts          GridLayouts                `json:"layouts"`
	WidgetSettings   map[string]json.RawMessage `json:"widgetSettings"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// IsEnabled reports whether id is in the enabled set.
func (s DashboardLayoutState) IsEnabled(id string) bool {
	for _, e := range s.EnabledWidgetIDs {
		if e == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; the copy shares no mutable memory with s. Nil slices and
// maps stay nil.
func (s DashboardLayoutState) Clone() DashboardLayoutState {
	out := s
	out.EnabledWidgetIDs = slices.Clone(s.EnabledWidgetIDs)

	if s.Layouts != nil {
		out.Layouts = make(GridLayouts, len(s.Layouts))
		for bp, items := range s.Layouts {
			out.Layouts[bp] = slices.Clone(items)
		}
	}

	if s.WidgetSettings != nil {
		out.WidgetSettings = make(map[string]json.RawMessage, len(s.WidgetSettings))
		for id, raw := range s.WidgetSettings {
			out.WidgetSettings[id] = slices.Clone(raw)
		}
	}
	return out
}

// PersistedLayouts is the entire durable footprint of the layout store.
type PersistedLayouts struct {
	Version      int                             `json:"version"`
	LayoutsByKey map[string]DashboardLayoutState `json:"layoutsByKey"`
}

func NewPersistedLayouts() PersistedLayouts {
	return PersistedLayouts{
		Version:      LayoutSchemaVersion,
		LayoutsByKey: make(map[string]DashboardLayoutState),
	}
}
