package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/projecthub-dashboard/internal/dto"
	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		return errs.NewValidationError(fmt.Sprintf("%s failed %q validation", field, fe.Tag()))
	}
	return errs.NewValidationError(err.Error())
}

// buildLayout checks a client layout against the registry and turns it into a state for
// role. Ids the previous layout already held are accepted even when the registry no
// longer knows them, so a stale widget never blocks saving.
func (s *dashboardService) buildLayout(role models.Role, req dto.SaveLayoutRequest, previous models.DashboardLayoutState) (models.DashboardLayoutState, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.DashboardLayoutState{}, validationError(err)
	}

	carried := previous.Layouts.IDs()
	known := func(wid string) bool {
		if s.registry.Allowed(role, wid) {
			return true
		}
		_, ok := carried[wid]
		return ok
	}

	layouts := make(models.GridLayouts, len(req.Layouts))
	placed := make(map[string]struct{})
	for _, bp := range models.Breakpoints() {
		items, ok := req.Layouts[bp]
		if !ok {
			continue
		}
		seen := make(map[string]struct{}, len(items))
		out := make([]models.GridItemLayout, 0, len(items))
		for _, it := range items {
			if err := s.validate.Struct(it); err != nil {
				return models.DashboardLayoutState{}, validationError(err)
			}
			if !known(it.I) {
				return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("widget %q is not available for role %q", it.I, role))
			}
			if _, dup := seen[it.I]; dup {
				return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("widget %q placed twice on %s", it.I, bp))
			}
			seen[it.I] = struct{}{}
			if it.X+it.W > bp.Cols() {
				return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("widget %q overflows the %d columns of %s", it.I, bp.Cols(), bp))
			}
			if item, ok := s.registry.Lookup(it.I); ok {
				if it.W < item.Meta.MinSize.W || it.H < item.Meta.MinSize.H {
					return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("widget %q is smaller than its minimum size", it.I))
				}
			}
			placed[it.I] = struct{}{}
			out = append(out, models.GridItemLayout{I: it.I, X: it.X, Y: it.Y, W: it.W, H: it.H, Static: it.Static})
		}
		layouts[bp] = out
	}

	enabled := make([]string, 0, len(req.EnabledWidgetIDs))
	seen := make(map[string]struct{}, len(req.EnabledWidgetIDs))
	for _, wid := range req.EnabledWidgetIDs {
		if _, dup := seen[wid]; dup {
			return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("widget %q enabled twice", wid))
		}
		seen[wid] = struct{}{}
		if _, ok := placed[wid]; !ok {
			return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("enabled widget %q has no placement", wid))
		}
		enabled = append(enabled, wid)
	}

	settings := make(map[string]json.RawMessage, len(req.WidgetSettings))
	for wid, raw := range req.WidgetSettings {
		if !known(wid) {
			return models.DashboardLayoutState{}, errs.NewValidationError(fmt.Sprintf("settings for unknown widget %q", wid))
		}
		if err := requireObject(wid, raw); err != nil {
			return models.DashboardLayoutState{}, err
		}
		settings[wid] = raw
	}

	return models.DashboardLayoutState{
		Version:          models.LayoutSchemaVersion,
		Role:             role,
		EnabledWidgetIDs: enabled,
		Layouts:          layouts,
		WidgetSettings:   settings,
	}, nil
}

func requireObject(widgetID string, raw json.RawMessage) error {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return errs.NewValidationError(fmt.Sprintf("settings for widget %q must be a JSON object", widgetID))
	}
	return nil
}
