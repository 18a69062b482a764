package handlers

import (
	"net/http"

	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
)

type healthHandlers struct {
	ResponseHandler response.ResponseHandler
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{ResponseHandler: deps.ResponseHandler}
}

func (h *healthHandlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
