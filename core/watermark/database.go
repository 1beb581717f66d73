package watermark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncState is one named watermark row.
type SyncState struct {
	Name      string `gorm:"column:name;primaryKey;size:64"`
	Value     string `gorm:"column:value;size:32;not null"`
	UpdatedAt time.Time
}

// TableName overrides the table name used by SyncState.
func (SyncState) TableName() string {
	return "sync_state"
}

// DBStore keeps the watermark in the sync_state table of the store itself.
type DBStore struct {
	db  *gorm.DB
	key string
}

// NewDBStore creates a database-backed store using the given row key.
func NewDBStore(db *gorm.DB, key string) *DBStore {
	return &DBStore{db: db, key: key}
}

// Migrate creates the sync_state table.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&SyncState{})
}

func (s *DBStore) Describe() string {
	return "database:sync_state/" + s.key
}

func (s *DBStore) Read(ctx context.Context) (time.Time, error) {
	var row SyncState
	err := s.db.WithContext(ctx).Where("name = ?", s.key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark row: %w", err)
	}
	return Parse(row.Value)
}

func (s *DBStore) Write(ctx context.Context, t time.Time) error {
	row := SyncState{Name: s.key, Value: Format(t), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write watermark row: %w", err)
	}
	return nil
}
