package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}
