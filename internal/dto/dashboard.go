package dto

import (
	"encoding/json"

	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

// --- Request types ---

type GridItemRequest struct {
	I      string `json:"i" validate:"required,max=64"`
	X      int    `json:"x" validate:"gte=0"`
	Y      int    `json:"y" validate:"gte=0"`
	W      int    `json:"w" validate:"gte=1"`
	H      int    `json:"h" validate:"gte=1"`
	Static bool   `json:"static"`
}

type SaveLayoutRequest struct {
	EnabledWidgetIDs []string                                `json:"enabledWidgetIds" validate:"dive,required"`
	Layouts          map[models.Breakpoint][]GridItemRequest `json:"layouts" validate:"required,dive,keys,oneof=lg md sm xs,endkeys"`
	WidgetSettings   map[string]json.RawMessage              `json:"widgetSettings"`
}

type AddWidgetRequest struct {
	WidgetID string `json:"widgetId" validate:"required"`
}

type UpdateWidgetSettingsRequest struct {
	Settings json.RawMessage `json:"settings" validate:"required"`
}

// --- Response types ---

// WidgetDescriptor is a registry entry as the client sees it.
type WidgetDescriptor struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Component   string      `json:"component"`
	DefaultSize models.Size `json:"defaultSize"`
	MinSize     models.Size `json:"minSize"`
	Enabled     bool        `json:"enabled"`
}

// DashboardResponse carries the caller's layout and the widgets it renders. Enabled ids
// unknown to the registry stay in Layout but get no descriptor.
type DashboardResponse struct {
	Role    models.Role                 `json:"role"`
	Layout  models.DashboardLayoutState `json:"layout"`
	Widgets []WidgetDescriptor          `json:"widgets"`
}
