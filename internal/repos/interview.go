package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

type InterviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interviews []*types.Interview) ([]*types.Interview, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
	CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error)
}

type interviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterviewRepo(db *gorm.DB, baseLog *logger.Logger) InterviewRepo {
	repoLog := baseLog.With("repo", "InterviewRepo")
	return &interviewRepo{db: db, log: repoLog}
}

func (r *interviewRepo) Create(ctx context.Context, tx *gorm.DB, interviews []*types.Interview) ([]*types.Interview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(interviews) == 0 {
		return []*types.Interview{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Interview{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *interviewRepo) CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Interview{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *interviewRepo) CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if companyID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Interview{}).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
