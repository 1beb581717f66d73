package jobads

import (
	"context"

	"jobads-sync/feature/jobads/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service serves read queries over the stored ads.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new job ads service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		repo:   NewRepository(db),
		logger: logger,
	}
}

// Count returns the number of stored ads.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Get returns one ad or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*models.JobAd, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of ads. Out of range paging values are clamped.
func (s *Service) List(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	opts.Limit = min(opts.Limit, maxLimit)
	opts.Offset = max(opts.Offset, 0)

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &models.Page{
		Items:  items,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}, nil
}
