package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/projecthub-dashboard/internal/config"
	"github.com/GregMSThompson/projecthub-dashboard/internal/persist"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/helpers"
)

func TestOpenBlobStoreMemory(t *testing.T) {
	blobs, closeFn, err := OpenBlobStore(helpers.TestCtx(), &config.Config{PersistBackend: config.BackendMemory}, nil)
	require.NoError(t, err)
	defer closeFn()

	_, err = blobs.Load(helpers.TestCtx(), persist.DefaultLayoutsBlob)
	assert.ErrorIs(t, err, persist.ErrBlobNotFound)
}

func TestOpenBlobStoreSQLite(t *testing.T) {
	ctx := helpers.TestCtx()
	cfg := &config.Config{PersistBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "layouts.db")}

	blobs, closeFn, err := OpenBlobStore(ctx, cfg, nil)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, blobs.Save(ctx, "prefs", []byte(`{"version":1}`)))
	got, err := blobs.Load(ctx, "prefs")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(got))
}

func TestOpenBlobStoreRejects(t *testing.T) {
	cases := map[string]*config.Config{
		"unknown backend": {PersistBackend: "redis"},
		"postgres no dsn": {PersistBackend: config.BackendPostgres},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := OpenBlobStore(helpers.TestCtx(), cfg, nil)
			assert.Error(t, err)
		})
	}
}
