package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

type JobViewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, views []*types.JobView) ([]*types.JobView, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	CountByViewerSince(ctx context.Context, tx *gorm.DB, viewerID uuid.UUID, since time.Time) (int64, error)
	CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error)
	CountByJobSince(ctx context.Context, tx *gorm.DB, jobID uuid.UUID, since time.Time) (int64, error)
}

type jobViewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobViewRepo(db *gorm.DB, baseLog *logger.Logger) JobViewRepo {
	repoLog := baseLog.With("repo", "JobViewRepo")
	return &jobViewRepo{db: db, log: repoLog}
}

func (r *jobViewRepo) Create(ctx context.Context, tx *gorm.DB, views []*types.JobView) ([]*types.JobView, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(views) == 0 {
		return []*types.JobView{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *jobViewRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.JobView{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobViewRepo) CountByViewerSince(ctx context.Context, tx *gorm.DB, viewerID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if viewerID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.JobView{}).
		Where("viewer_id = ? AND created_at >= ?", viewerID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobViewRepo) CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if companyID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.JobView{}).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobViewRepo) CountByJobSince(ctx context.Context, tx *gorm.DB, jobID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if jobID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.JobView{}).
		Where("job_id = ? AND created_at >= ?", jobID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
