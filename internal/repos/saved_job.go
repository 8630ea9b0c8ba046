package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

type SavedJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, saved []*types.SavedJob) ([]*types.SavedJob, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
}

type savedJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedJobRepo(db *gorm.DB, baseLog *logger.Logger) SavedJobRepo {
	repoLog := baseLog.With("repo", "SavedJobRepo")
	return &savedJobRepo{db: db, log: repoLog}
}

func (r *savedJobRepo) Create(ctx context.Context, tx *gorm.DB, saved []*types.SavedJob) ([]*types.SavedJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(saved) == 0 {
		return []*types.SavedJob{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *savedJobRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SavedJob{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *savedJobRepo) CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.SavedJob{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
