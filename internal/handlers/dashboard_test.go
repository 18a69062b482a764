package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/projecthub-dashboard/internal/dto"
	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/middleware"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

// --- Stubs ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubDashboardService struct {
	dashboard dto.DashboardResponse
	widgets   []dto.WidgetDescriptor
	state     models.DashboardLayoutState
	err       error

	lastID        models.Identity
	lastWidgetID  string
	lastSaveReq   dto.SaveLayoutRequest
	lastUpdateReq dto.UpdateWidgetSettingsRequest
	resetCalled   bool
}

func (s *stubDashboardService) GetDashboard(_ context.Context, id models.Identity) (dto.DashboardResponse, error) {
	s.lastID = id
	return s.dashboard, s.err
}

func (s *stubDashboardService) ListAvailableWidgets(_ context.Context, id models.Identity) ([]dto.WidgetDescriptor, error) {
	s.lastID = id
	return s.widgets, s.err
}

func (s *stubDashboardService) SaveLayout(_ context.Context, id models.Identity, req dto.SaveLayoutRequest) (models.DashboardLayoutState, error) {
	s.lastID = id
	s.lastSaveReq = req
	return s.state, s.err
}

func (s *stubDashboardService) AddWidget(_ context.Context, id models.Identity, req dto.AddWidgetRequest) (models.DashboardLayoutState, error) {
	s.lastID = id
	s.lastWidgetID = req.WidgetID
	return s.state, s.err
}

func (s *stubDashboardService) RemoveWidget(_ context.Context, id models.Identity, widgetID string) (models.DashboardLayoutState, error) {
	s.lastID = id
	s.lastWidgetID = widgetID
	return s.state, s.err
}

func (s *stubDashboardService) UpdateWidgetSettings(_ context.Context, id models.Identity, widgetID string, req dto.UpdateWidgetSettingsRequest) (models.DashboardLayoutState, error) {
	s.lastID = id
	s.lastWidgetID = widgetID
	s.lastUpdateReq = req
	return s.state, s.err
}

func (s *stubDashboardService) ResetLayout(_ context.Context, id models.Identity) (models.DashboardLayoutState, error) {
	s.lastID = id
	s.resetCalled = true
	return s.state, s.err
}

var testIdentity = models.Identity{UserID: "uid1", Role: models.RoleAdvisor, TenantDomain: "acme"}

// withIdentity injects a resolved identity into the request context.
func withIdentity(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), testIdentity))
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func newTestHandlers() (*dashboardHandlers, *stubDashboardService, *stubResponseHandler) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	return NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc}), svc, resp
}

func expectSuccess(t *testing.T, resp *stubResponseHandler, status int) {
	t.Helper()
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != status {
		t.Fatalf("expected WriteSuccess with %d, got called=%v status=%d (err=%v)", status, resp.writeSuccessCalled, resp.writeSuccessStatus, resp.handleError)
	}
}

// --- Tests ---

func TestGetDashboard_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()
	svc.dashboard = dto.DashboardResponse{Role: models.RoleAdvisor}

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	h.GetDashboard(httptest.NewRecorder(), req)

	expectSuccess(t, resp, http.StatusOK)
	if svc.lastID != testIdentity {
		t.Fatalf("service got identity %+v", svc.lastID)
	}
}

func TestGetDashboard_NoIdentity(t *testing.T) {
	h, _, resp := newTestHandlers()

	h.GetDashboard(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	var fe *errs.ForbiddenError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &fe) {
		t.Fatalf("expected forbidden error, got %v", resp.handleError)
	}
}

func TestGetDashboard_ServiceError(t *testing.T) {
	h, svc, resp := newTestHandlers()
	svc.err = errors.New("db failure")

	h.GetDashboard(httptest.NewRecorder(), withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestListWidgets_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()
	svc.widgets = []dto.WidgetDescriptor{{ID: "calendar", Enabled: true}}

	h.ListWidgets(httptest.NewRecorder(), withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/widgets", nil)))

	expectSuccess(t, resp, http.StatusOK)
	if got, ok := resp.writeSuccessData.([]dto.WidgetDescriptor); !ok || len(got) != 1 {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestSaveLayout_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()

	body := `{"enabledWidgetIds":["calendar"],"layouts":{"lg":[{"i":"calendar","x":0,"y":0,"w":4,"h":5}]},"widgetSettings":{"calendar":{"view":"week"}}}`
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/dashboard/layout", strings.NewReader(body)))
	h.SaveLayout(httptest.NewRecorder(), req)

	expectSuccess(t, resp, http.StatusOK)
	items := svc.lastSaveReq.Layouts[models.BreakpointLarge]
	if len(items) != 1 || items[0].I != "calendar" || items[0].W != 4 {
		t.Fatalf("unexpected layout passed to service: %+v", svc.lastSaveReq.Layouts)
	}
	var settings map[string]string
	if err := json.Unmarshal(svc.lastSaveReq.WidgetSettings["calendar"], &settings); err != nil || settings["view"] != "week" {
		t.Fatalf("settings not passed through: %s", svc.lastSaveReq.WidgetSettings["calendar"])
	}
}

func TestSaveLayout_BadBody(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"layouts":`,
		"unknown field": `{"layouts":{},"theme":"dark"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			h, svc, resp := newTestHandlers()
			req := withIdentity(httptest.NewRequest(http.MethodPut, "/dashboard/layout", strings.NewReader(body)))
			h.SaveLayout(httptest.NewRecorder(), req)

			var ve *errs.ValidationError
			if !errors.As(resp.handleError, &ve) {
				t.Fatalf("expected validation error, got %v", resp.handleError)
			}
			if svc.lastID != (models.Identity{}) {
				t.Fatal("service called with a bad body")
			}
		})
	}
}

func TestResetLayout_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()

	h.ResetLayout(httptest.NewRecorder(), withIdentity(httptest.NewRequest(http.MethodPost, "/dashboard/reset", nil)))

	expectSuccess(t, resp, http.StatusOK)
	if !svc.resetCalled {
		t.Fatal("expected ResetLayout to be called")
	}
}

func TestAddWidget_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader(`{"widgetId":"calendar"}`)))
	h.AddWidget(httptest.NewRecorder(), req)

	expectSuccess(t, resp, http.StatusOK)
	if svc.lastWidgetID != "calendar" {
		t.Errorf("unexpected widget id passed to service: %s", svc.lastWidgetID)
	}
}

func TestAddWidget_ValidationError(t *testing.T) {
	h, svc, resp := newTestHandlers()
	svc.err = errs.NewValidationError("widgetId failed \"required\" validation")

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader(`{}`)))
	h.AddWidget(httptest.NewRecorder(), req)

	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestRemoveWidget_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()

	req := withIdentity(httptest.NewRequest(http.MethodDelete, "/dashboard/widgets/calendar", nil))
	req = withChiParam(req, "widgetId", "calendar")
	h.RemoveWidget(httptest.NewRecorder(), req)

	expectSuccess(t, resp, http.StatusOK)
	if svc.lastWidgetID != "calendar" {
		t.Errorf("unexpected widget id passed to service: %s", svc.lastWidgetID)
	}
}

func TestRemoveWidget_NotFound(t *testing.T) {
	h, svc, resp := newTestHandlers()
	svc.err = errs.NewNotFoundError("widget not on dashboard")

	req := withIdentity(httptest.NewRequest(http.MethodDelete, "/dashboard/widgets/calendar", nil))
	req = withChiParam(req, "widgetId", "calendar")
	h.RemoveWidget(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestUpdateWidgetSettings_OK(t *testing.T) {
	h, svc, resp := newTestHandlers()

	req := withIdentity(httptest.NewRequest(http.MethodPut, "/dashboard/widgets/calendar/settings", strings.NewReader(`{"settings":{"view":"month"}}`)))
	req = withChiParam(req, "widgetId", "calendar")
	h.UpdateWidgetSettings(httptest.NewRecorder(), req)

	expectSuccess(t, resp, http.StatusOK)
	if svc.lastWidgetID != "calendar" || string(svc.lastUpdateReq.Settings) != `{"view":"month"}` {
		t.Fatalf("unexpected call: id=%s settings=%s", svc.lastWidgetID, svc.lastUpdateReq.Settings)
	}
}

func TestDashboardRoutes_Wiring(t *testing.T) {
	h, svc, _ := newTestHandlers()
	router := h.DashboardRoutes()

	req := withIdentity(httptest.NewRequest(http.MethodDelete, "/widgets/quick-links", nil))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || svc.lastWidgetID != "quick-links" {
		t.Fatalf("route not wired: status=%d widget=%q", rr.Code, svc.lastWidgetID)
	}
}

func TestHealthz(t *testing.T) {
	resp := &stubResponseHandler{}
	NewHealthHandlers(&Deps{ResponseHandler: resp}).Healthz(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	expectSuccess(t, resp, http.StatusOK)
}
