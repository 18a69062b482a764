package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/projecthub-dashboard/internal/config"
	"github.com/GregMSThompson/projecthub-dashboard/internal/persist"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

func noopClose() error { return nil }

// OpenBlobStore opens the configured layout backend. fs is only used by the firestore
// backend and may be nil otherwise. The returned func releases the backend.
func OpenBlobStore(ctx context.Context, cfg *config.Config, fs *firestore.Client) (persist.BlobStore, func() error, error) {
	log := logger.FromContext(ctx)

	switch cfg.PersistBackend {
	case config.BackendMemory, "":
		log.Warn("using in-memory layout storage, layouts are lost on restart")
		return persist.NewMemoryBlobStore(), noopClose, nil

	case config.BackendFirestore:
		if fs == nil {
			var err error
			if fs, err = InitFirestore(ctx, cfg.ProjectID); err != nil {
				return nil, nil, err
			}
			return persist.NewFirestoreBlobStore(fs), fs.Close, nil
		}
		return persist.NewFirestoreBlobStore(fs), noopClose, nil

	case config.BackendSQLite:
		db, err := persist.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		if err := persist.RunMigrations(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info("using sqlite layout storage", "path", cfg.SQLitePath)
		return persist.NewSQLiteBlobStore(db), sqlDB.Close, nil

	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASEURL is required for the postgres backend")
		}
		db, err := persist.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		pg := persist.NewPostgresBlobStore(db)
		if err := pg.EnsureTable(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("using postgres layout storage")
		return pg, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown persistence backend %q", cfg.PersistBackend)
	}
}
