package persist

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
)

type blobRow struct {
	Name      string    `db:"name"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

type postgresBlobStore struct {
	db *sqlx.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return sqlx.ConnectContext(ctx, "postgres", dsn)
}

func NewPostgresBlobStore(db *sqlx.DB) *postgresBlobStore {
	return &postgresBlobStore{db: db}
}

// EnsureTable creates the blob table when it is missing.
func (s *postgresBlobStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS persisted_blobs (
		name varchar(128) PRIMARY KEY,
		data jsonb NOT NULL,
		updated_at timestamptz NOT NULL
	)`)
	if err != nil {
		return errs.NewDatabaseError("migrate", "failed to create persisted_blobs", err)
	}
	return nil
}

func (s *postgresBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	var row blobRow
	err := s.db.GetContext(ctx, &row,
		`SELECT name, data, updated_at FROM persisted_blobs WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get blob", err)
	}
	return row.Data, nil
}

func (s *postgresBlobStore) Save(ctx context.Context, name string, data []byte) error {
	// jsonb parameters go over the wire as text
	_, err := s.db.ExecContext(ctx, `INSERT INTO persisted_blobs (name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		name, string(data), time.Now())
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save blob", err)
	}
	return nil
}
