package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/projecthub-dashboard/internal/config"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
	"github.com/GregMSThompson/projecthub-dashboard/internal/store"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Registry  *registry.Registry
	Layouts   *store.DashboardStore

	closers []func() error
}

// Run wires the process-wide dependencies. Log is set even when an error is returned.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	applicationCtx = logger.ToContext(applicationCtx, bs.Log)
	bs.Registry = registry.Default()

	if needsFirestore(cfg) {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.Firestore.Close)
	}

	if !cfg.AuthDisabled {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("authentication disabled, all requests use the dev identity", "uid", cfg.DevUID, "role", cfg.DevRole)
	}

	blobs, closeBlobs, err := OpenBlobStore(applicationCtx, cfg, bs.Firestore)
	if err != nil {
		return bs, err
	}
	bs.closers = append(bs.closers, closeBlobs)

	bs.Layouts, err = store.NewDashboardStore(applicationCtx, bs.Registry, blobs, store.WithBlobName(cfg.LayoutBlobName))
	if err != nil {
		return bs, err
	}
	return bs, nil
}

// Close flushes pending layout writes and releases backend connections.
func (bs *Bootstrap) Close(ctx context.Context) error {
	var errList []error
	if bs.Layouts != nil {
		errList = append(errList, bs.Layouts.Close(ctx))
	}
	for i := len(bs.closers) - 1; i >= 0; i-- {
		errList = append(errList, bs.closers[i]())
	}
	return errors.Join(errList...)
}

func needsFirestore(cfg *config.Config) bool {
	return cfg.PersistBackend == config.BackendFirestore || (!cfg.AuthDisabled && cfg.ProjectID != "")
}
