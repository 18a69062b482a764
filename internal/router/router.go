package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/projecthub-dashboard/internal/handlers"
)

// Auth groups the middlewares that authenticate a request and resolve its dashboard
// identity, in the order they run.
type Auth struct {
	Authenticate func(http.Handler) http.Handler
	Identity     func(http.Handler) http.Handler
}

func NewRouter(deps *handlers.Deps, auth Auth, logMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(logMiddleware)
	r.Use(chimiddleware.Recoverer)

	hh := handlers.NewHealthHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)

	r.Get("/healthz", hh.Healthz)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate, auth.Identity)
		r.Mount("/dashboard", dh.DashboardRoutes())
	})
	return r
}
