// Package layout derives dashboard layout keys and generates grid arrangements.
package layout

import (
	"encoding/json"
	"time"

	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
)

// DefaultDashboardLayout builds the initial dashboard for role: every widget the registry
// allows for role, packed in registration order on every breakpoint. The result depends
// only on role, the registry and now.
func DefaultDashboardLayout(reg *registry.Registry, role models.Role, now time.Time) models.DashboardLayoutState {
	widgets := reg.WidgetsForRole(role)

	enabled := make([]string, 0, len(widgets))
	for _, w := range widgets {
		enabled = append(enabled, w.Meta.ID)
	}

	layouts := make(models.GridLayouts, len(models.Breakpoints()))
	for _, bp := range models.Breakpoints() {
		layouts[bp] = pack(widgets, bp.Cols())
	}

	return models.DashboardLayoutState{
		Version:          models.LayoutSchemaVersion,
		Role:             role,
		EnabledWidgetIDs: enabled,
		Layouts:          layouts,
		WidgetSettings:   map[string]json.RawMessage{},
		UpdatedAt:        now,
	}
}

// pack places widgets left to right, wrapping to a new row when the next one does not fit.
func pack(widgets []registry.Item, cols int) []models.GridItemLayout {
	items := make([]models.GridItemLayout, 0, len(widgets))
	x, y, rowHeight := 0, 0, 0
	for _, w := range widgets {
		width := clampWidth(w.Meta.DefaultSize.W, cols)
		height := w.Meta.DefaultSize.H
		if x > 0 && x+width > cols {
			x = 0
			y += rowHeight
			rowHeight = 0
		}
		items = append(items, models.GridItemLayout{I: w.Meta.ID, X: x, Y: y, W: width, H: height})
		x += width
		rowHeight = max(rowHeight, height)
	}
	return items
}

func clampWidth(w, cols int) int {
	return min(w, cols)
}
