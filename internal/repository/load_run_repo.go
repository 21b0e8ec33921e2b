package repository

import (
	"context"
	"errors"

	"github.com/timmy/vidgrid/internal/domain"
	"gorm.io/gorm"
)

// LoadRunRepository stores the history of catalogue loads.
type LoadRunRepository struct {
	db *gorm.DB
}

// NewLoadRunRepository creates a new LoadRunRepository.
func NewLoadRunRepository(db *gorm.DB) *LoadRunRepository {
	return &LoadRunRepository{db: db}
}

// Create inserts a new load run.
func (r *LoadRunRepository) Create(ctx context.Context, run *domain.LoadRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves all fields of an existing load run.
func (r *LoadRunRepository) Update(ctx context.Context, run *domain.LoadRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// Latest returns the most recent run, or nil when none has been recorded.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.LoadRun: newest run by start time, or nil.
//   - error: non-nil if the query fails.
func (r *LoadRunRepository) Latest(ctx context.Context) (*domain.LoadRun, error) {
	var run domain.LoadRun
	err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *LoadRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.LoadRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []domain.LoadRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// CountByStatus counts runs with the given status.
func (r *LoadRunRepository) CountByStatus(ctx context.Context, status domain.LoadStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.LoadRun{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
