package persist

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type blobModel struct {
	Name      string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (blobModel) TableName() string { return "persisted_blobs" }

// OpenSQLite opens a database file with the pure-Go sqlite driver.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
}

func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return err
	}

	return nil
}

type sqliteBlobStore struct {
	db *gorm.DB
}

func NewSQLiteBlobStore(db *gorm.DB) *sqliteBlobStore {
	return &sqliteBlobStore{db: db}
}

func (s *sqliteBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	var m blobModel
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get blob", err)
	}
	return m.Data, nil
}

func (s *sqliteBlobStore) Save(ctx context.Context, name string, data []byte) error {
	m := blobModel{Name: name, Data: data, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save blob", err)
	}
	return nil
}
