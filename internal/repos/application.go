package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, applications []*types.Application) ([]*types.Application, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Application, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ApplicationStatus) error
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
	CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	repoLog := baseLog.With("repo", "ApplicationRepo")
	return &applicationRepo{db: db, log: repoLog}
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, applications []*types.Application) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(applications) == 0 {
		return []*types.Application{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Application, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Application
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ApplicationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *applicationRepo) CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if userID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *applicationRepo) CountByCompanySince(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if companyID == uuid.Nil {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Application{}).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
