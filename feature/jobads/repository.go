package jobads

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"jobads-sync/core/database"
	"jobads-sync/core/reconcile"
	"jobads-sync/feature/jobads/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("job ad not found")

// Repository persists job ads through GORM. It implements reconcile.Store
// and reconcile.BatchInserter.
type Repository struct {
	db *gorm.DB
}

var (
	_ reconcile.Store         = (*Repository)(nil)
	_ reconcile.BatchInserter = (*Repository)(nil)
)

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open session.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Migrate creates the jobads table when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.JobAd{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", models.TableName, err)
	}
	return nil
}

// VerifySchema checks that the table has exactly the projected columns and
// that id is the primary key.
func (r *Repository) VerifySchema() error {
	cols, err := database.GetTableColumns(r.db, models.TableName)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s does not exist", models.TableName)
	}

	got := make([]string, 0, len(cols))
	idKey := ""
	for _, c := range cols {
		got = append(got, c.Field)
		if c.Field == "id" {
			idKey = c.Key
		}
	}

	want := Columns()
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return fmt.Errorf("table %s has columns %v, want %v", models.TableName, got, want)
	}
	if idKey != "PRI" {
		return fmt.Errorf("table %s: id is not the primary key", models.TableName)
	}
	return nil
}

// Exists reports whether a row with id is stored.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.JobAd{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Insert stores the projection of rec.
func (r *Repository) Insert(ctx context.Context, rec reconcile.Record) error {
	ad := Project(rec)
	return r.db.WithContext(ctx).Create(&ad).Error
}

// InsertBatch stores many projections in one statement. An id already
// present is overwritten.
func (r *Repository) InsertBatch(ctx context.Context, recs []reconcile.Record) error {
	if len(recs) == 0 {
		return nil
	}
	ads := make([]models.JobAd, 0, len(recs))
	for _, rec := range recs {
		ads = append(ads, Project(rec))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&ads).Error
}

// Update rewrites the projected fields of rec.ID.
func (r *Repository) Update(ctx context.Context, rec reconcile.Record) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.JobAd{}).
		Where("id = ?", rec.ID).
		Updates(Values(rec.Doc))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the row with id, if any.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobAd{}).Error
}

// Clear removes every stored ad.
func (r *Repository) Clear(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.JobAd{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", models.TableName, res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of stored ads.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.JobAd{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", models.TableName, err)
	}
	return n, nil
}

// Get returns the ad with id.
func (r *Repository) Get(ctx context.Context, id string) (*models.JobAd, error) {
	var ad models.JobAd
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// List returns a filtered page of ads ordered by id, with the filtered total.
func (r *Repository) List(ctx context.Context, opts models.ListOptions) ([]models.JobAd, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.JobAd{})
		if opts.City != "" {
			q = q.Where("city = ?", opts.City)
		}
		if opts.Occupation != "" {
			q = q.Where("occupation = ?", opts.Occupation)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ads := []models.JobAd{}
	if err := filtered().Order("id").Limit(opts.Limit).Offset(opts.Offset).Find(&ads).Error; err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}
