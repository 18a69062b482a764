package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/projecthub-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/projecthub-dashboard/internal/config"
	"github.com/GregMSThompson/projecthub-dashboard/internal/handlers"
	"github.com/GregMSThompson/projecthub-dashboard/internal/middleware"
	"github.com/GregMSThompson/projecthub-dashboard/internal/response"
	"github.com/GregMSThompson/projecthub-dashboard/internal/router"
	"github.com/GregMSThompson/projecthub-dashboard/internal/services"
	"github.com/GregMSThompson/projecthub-dashboard/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// services
	idserv := services.NewIdentityService(nil)
	if bs.Firestore != nil {
		idserv = services.NewIdentityService(store.NewUserStore(bs.Firestore))
	}
	dserv := services.NewDashboardService(bs.Layouts, bs.Registry)

	// middleware
	var auth router.Auth
	if cfg.AuthDisabled {
		auth.Authenticate = middleware.DevAuth(middleware.Principal{UID: cfg.DevUID, Role: cfg.DevRole, Tenant: cfg.DevTenant})
	} else {
		auth.Authenticate = middleware.NewMiddleware(bs.Firebase).FirebaseAuth
	}
	auth.Identity = middleware.NewIdentityMiddleware(idserv, rh).Identity
	lm := middleware.NewLoggerMiddleware(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.DashboardSvc = dserv

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps, auth, lm.LoggerMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr, "backend", cfg.PersistBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-ctx.Done()
	bs.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
	if err := bs.Close(shutdownCtx); err != nil {
		bs.Log.Error("bootstrap close failed", "error", err)
	}
}
