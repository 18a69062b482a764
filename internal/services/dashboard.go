package services

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/projecthub-dashboard/internal/dto"
	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/layout"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

// layoutStore is the dashboard layout storage interface.
type layoutStore interface {
	GetLayout(ctx context.Context, key string) (models.DashboardLayoutState, bool)
	GetOrCreateLayout(ctx context.Context, key string, role models.Role) models.DashboardLayoutState
	SaveLayout(ctx context.Context, key string, st models.DashboardLayoutState) models.DashboardLayoutState
	ResetLayout(ctx context.Context, key string, role models.Role) models.DashboardLayoutState
}

type dashboardService struct {
	store    layoutStore
	registry *registry.Registry
	validate *validator.Validate
}

func NewDashboardService(store layoutStore, reg *registry.Registry) *dashboardService {
	return &dashboardService{store: store, registry: reg, validate: newValidator()}
}

// --- Public service methods ---

func (s *dashboardService) GetDashboard(ctx context.Context, id models.Identity) (dto.DashboardResponse, error) {
	st := s.store.GetOrCreateLayout(ctx, layout.KeyFor(id), id.Role)

	widgets := make([]dto.WidgetDescriptor, 0, len(st.EnabledWidgetIDs))
	for _, wid := range st.EnabledWidgetIDs {
		item, ok := s.registry.Lookup(wid)
		if !ok || !item.Meta.AllowedFor(id.Role) {
			logger.FromContext(ctx).Debug("skipping stale widget", "widget_id", wid)
			continue
		}
		widgets = append(widgets, describe(item, true))
	}

	return dto.DashboardResponse{Role: id.Role, Layout: st, Widgets: widgets}, nil
}

func (s *dashboardService) ListAvailableWidgets(ctx context.Context, id models.Identity) ([]dto.WidgetDescriptor, error) {
	st, exists := s.store.GetLayout(ctx, layout.KeyFor(id))
	items := s.registry.WidgetsForRole(id.Role)
	out := make([]dto.WidgetDescriptor, 0, len(items))
	for _, it := range items {
		// without a stored layout the caller would get the default, which enables everything
		enabled := !exists || st.IsEnabled(it.Meta.ID)
		out = append(out, describe(it, enabled))
	}
	return out, nil
}

func (s *dashboardService) SaveLayout(ctx context.Context, id models.Identity, req dto.SaveLayoutRequest) (models.DashboardLayoutState, error) {
	key := layout.KeyFor(id)
	previous, _ := s.store.GetLayout(ctx, key)

	st, err := s.buildLayout(id.Role, req, previous)
	if err != nil {
		return models.DashboardLayoutState{}, err
	}
	return s.store.SaveLayout(ctx, key, st), nil
}

func (s *dashboardService) AddWidget(ctx context.Context, id models.Identity, req dto.AddWidgetRequest) (models.DashboardLayoutState, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.DashboardLayoutState{}, validationError(err)
	}
	widgetID := req.WidgetID
	item, ok := s.registry.Lookup(widgetID)
	if !ok || !item.Meta.AllowedFor(id.Role) {
		return models.DashboardLayoutState{}, errs.NewValidationError("widget " + widgetID + " is not available for role " + id.Role.String())
	}

	key := layout.KeyFor(id)
	st := s.store.GetOrCreateLayout(ctx, key, id.Role)
	if st.IsEnabled(widgetID) {
		return st, nil
	}

	st.EnabledWidgetIDs = append(st.EnabledWidgetIDs, widgetID)
	st.Layouts = layout.PlaceBelow(st.Layouts, item)
	logger.FromContext(ctx).Info("widget added", "widget_id", widgetID)
	return s.store.SaveLayout(ctx, key, st), nil
}

func (s *dashboardService) RemoveWidget(ctx context.Context, id models.Identity, widgetID string) (models.DashboardLayoutState, error) {
	key := layout.KeyFor(id)
	st := s.store.GetOrCreateLayout(ctx, key, id.Role)
	if _, placed := st.Layouts.IDs()[widgetID]; !placed && !st.IsEnabled(widgetID) {
		return models.DashboardLayoutState{}, errs.NewNotFoundError("widget not on dashboard")
	}

	enabled := make([]string, 0, len(st.EnabledWidgetIDs))
	for _, e := range st.EnabledWidgetIDs {
		if e != widgetID {
			enabled = append(enabled, e)
		}
	}
	st.EnabledWidgetIDs = enabled
	st.Layouts = layout.Remove(st.Layouts, widgetID)
	delete(st.WidgetSettings, widgetID)

	logger.FromContext(ctx).Info("widget removed", "widget_id", widgetID)
	return s.store.SaveLayout(ctx, key, st), nil
}

func (s *dashboardService) UpdateWidgetSettings(ctx context.Context, id models.Identity, widgetID string, req dto.UpdateWidgetSettingsRequest) (models.DashboardLayoutState, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.DashboardLayoutState{}, validationError(err)
	}
	if err := requireObject(widgetID, req.Settings); err != nil {
		return models.DashboardLayoutState{}, err
	}

	key := layout.KeyFor(id)
	st := s.store.GetOrCreateLayout(ctx, key, id.Role)
	if !st.IsEnabled(widgetID) {
		return models.DashboardLayoutState{}, errs.NewNotFoundError("widget not on dashboard")
	}
	if st.WidgetSettings == nil {
		st.WidgetSettings = map[string]json.RawMessage{}
	}
	st.WidgetSettings[widgetID] = req.Settings
	return s.store.SaveLayout(ctx, key, st), nil
}

func (s *dashboardService) ResetLayout(ctx context.Context, id models.Identity) (models.DashboardLayoutState, error) {
	return s.store.ResetLayout(ctx, layout.KeyFor(id), id.Role), nil
}

// --- Helpers ---

func describe(it registry.Item, enabled bool) dto.WidgetDescriptor {
	return dto.WidgetDescriptor{
		ID:          it.Meta.ID,
		Title:       it.Meta.Title,
		Component:   it.Component,
		DefaultSize: it.Meta.DefaultSize,
		MinSize:     it.Meta.MinSize,
		Enabled:     enabled,
	}
}
