package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/projecthub-dashboard/pkg/helpers"
)

// exerciseBlobStore checks the BlobStore contract shared by every backend.
func exerciseBlobStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := helpers.TestCtx()

	_, err := s.Load(ctx, "absent")
	require.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, s.Save(ctx, "layouts", []byte(`{"version":1,"layoutsByKey":{}}`)))
	got, err := s.Load(ctx, "layouts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"layoutsByKey":{}}`, string(got))

	require.NoError(t, s.Save(ctx, "layouts", []byte(`{"version":1,"layoutsByKey":{"k":{}}}`)))
	got, err = s.Load(ctx, "layouts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"layoutsByKey":{"k":{}}}`, string(got))

	require.NoError(t, s.Save(ctx, "other", []byte(`{}`)))
	got, err = s.Load(ctx, "layouts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"layoutsByKey":{"k":{}}}`, string(got), "blobs must not share storage")
}

func TestMemoryBlobStore(t *testing.T) {
	s := NewMemoryBlobStore()
	exerciseBlobStore(t, s)

	data := []byte(`{"a":1}`)
	require.NoError(t, s.Save(context.Background(), "copy", data))
	data[2] = 'b'
	got, _ := s.Load(context.Background(), "copy")
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestSQLiteBlobStore(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(context.Background(), db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	exerciseBlobStore(t, NewSQLiteBlobStore(db))
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(context.Background(), db))
	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestFirestoreBlobStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "projecthub-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseBlobStore(t, NewFirestoreBlobStore(client))
}

func TestPostgresBlobStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewPostgresBlobStore(db)
	require.NoError(t, s.EnsureTable(ctx))
	_, err = db.ExecContext(ctx, `DELETE FROM persisted_blobs WHERE name IN ('absent', 'layouts', 'other')`)
	require.NoError(t, err)

	exerciseBlobStore(t, s)
}
