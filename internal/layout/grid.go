package layout

import (
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
)

// PlaceBelow appends the widget under the lowest item of every breakpoint, at column 0,
// using its default size clamped to the breakpoint's columns. Breakpoints that already
// place the widget keep that placement; missing breakpoints are created. The input is not
// modified.
func PlaceBelow(layouts models.GridLayouts, item registry.Item) models.GridLayouts {
	out := make(models.GridLayouts, len(layouts))
	for bp, items := range layouts {
		out[bp] = append([]models.GridItemLayout(nil), items...)
	}
	for _, bp := range models.Breakpoints() {
		items := out[bp]
		if contains(items, item.Meta.ID) {
			continue
		}
		out[bp] = append(items, models.GridItemLayout{
			I: item.Meta.ID,
			X: 0,
			Y: bottom(items),
			W: clampWidth(item.Meta.DefaultSize.W, bp.Cols()),
			H: item.Meta.DefaultSize.H,
		})
	}
	return out
}

// Remove drops every placement of id. The input is not modified.
func Remove(layouts models.GridLayouts, id string) models.GridLayouts {
	out := make(models.GridLayouts, len(layouts))
	for bp, items := range layouts {
		kept := make([]models.GridItemLayout, 0, len(items))
		for _, it := range items {
			if it.I != id {
				kept = append(kept, it)
			}
		}
		out[bp] = kept
	}
	return out
}

func bottom(items []models.GridItemLayout) int {
	y := 0
	for _, it := range items {
		y = max(y, it.Bottom())
	}
	return y
}

func contains(items []models.GridItemLayout, id string) bool {
	for _, it := range items {
		if it.I == id {
			return true
		}
	}
	return false
}
