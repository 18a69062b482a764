package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/projecthub-dashboard/internal/dto"
	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/middleware"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
)

type dashboardService interface {
	GetDashboard(ctx context.Context, id models.Identity) (dto.DashboardResponse, error)
	ListAvailableWidgets(ctx context.Context, id models.Identity) ([]dto.WidgetDescriptor, error)
	SaveLayout(ctx context.Context, id models.Identity, req dto.SaveLayoutRequest) (models.DashboardLayoutState, error)
	AddWidget(ctx context.Context, id models.Identity, req dto.AddWidgetRequest) (models.DashboardLayoutState, error)
	RemoveWidget(ctx context.Context, id models.Identity, widgetID string) (models.DashboardLayoutState, error)
	UpdateWidgetSettings(ctx context.Context, id models.Identity, widgetID string, req dto.UpdateWidgetSettingsRequest) (models.DashboardLayoutState, error)
	ResetLayout(ctx context.Context, id models.Identity) (models.DashboardLayoutState, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Put("/layout", h.SaveLayout)
	r.Post("/reset", h.ResetLayout)
	r.Get("/widgets", h.ListWidgets)
	r.Post("/widgets", h.AddWidget)
	r.Delete("/widgets/{widgetId}", h.RemoveWidget)
	r.Put("/widgets/{widgetId}/settings", h.UpdateWidgetSettings)
	return r
}

// identity returns the resolved caller or writes a 403.
func (h *dashboardHandlers) identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("no dashboard identity"))
	}
	return id, ok
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	resp, err := h.DashboardSvc.GetDashboard(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}

func (h *dashboardHandlers) ListWidgets(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	widgets, err := h.DashboardSvc.ListAvailableWidgets(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, widgets)
}

func (h *dashboardHandlers) SaveLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req dto.SaveLayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	st, err := h.DashboardSvc.SaveLayout(r.Context(), id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, st)
}

func (h *dashboardHandlers) ResetLayout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	st, err := h.DashboardSvc.ResetLayout(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, st)
}

func (h *dashboardHandlers) AddWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req dto.AddWidgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	st, err := h.DashboardSvc.AddWidget(r.Context(), id, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, st)
}

func (h *dashboardHandlers) RemoveWidget(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	widgetID := chi.URLParam(r, "widgetId")
	st, err := h.DashboardSvc.RemoveWidget(r.Context(), id, widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, st)
}

func (h *dashboardHandlers) UpdateWidgetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	st, err := h.DashboardSvc.UpdateWidgetSettings(r.Context(), id, widgetID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, st)
}
