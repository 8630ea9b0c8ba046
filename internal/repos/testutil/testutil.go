package testutil

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Company{},
		&types.Job{},
		&types.JobView{},
		&types.Application{},
		&types.Interview{},
		&types.SavedJob{},
	)
}

func PtrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role, companyID *uuid.UUID) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
		CompanyID: companyID,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Company {
	tb.Helper()
	c := &types.Company{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, title string) *types.Job {
	tb.Helper()
	j := &types.Job{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     title,
		Active:    true,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedJobView(tb testing.TB, ctx context.Context, tx *gorm.DB, job *types.Job, viewerID *uuid.UUID, at time.Time) *types.JobView {
	tb.Helper()
	v := &types.JobView{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		ViewerID:  viewerID,
		CreatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed job view: %v", err)
	}
	return v
}

func SeedApplication(tb testing.TB, ctx context.Context, tx *gorm.DB, job *types.Job, userID uuid.UUID, at time.Time) *types.Application {
	tb.Helper()
	a := &types.Application{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		UserID:    userID,
		Status:    types.ApplicationPending,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed application: %v", err)
	}
	return a
}

func SeedInterview(tb testing.TB, ctx context.Context, tx *gorm.DB, application *types.Application, at time.Time) *types.Interview {
	tb.Helper()
	iv := &types.Interview{
		ID:            uuid.New(),
		ApplicationID: application.ID,
		JobID:         application.JobID,
		CompanyID:     application.CompanyID,
		UserID:        application.UserID,
		ScheduledAt:   at.Add(72 * time.Hour),
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if err := tx.WithContext(ctx).Create(iv).Error; err != nil {
		tb.Fatalf("seed interview: %v", err)
	}
	return iv
}

func SeedSavedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, job *types.Job, userID uuid.UUID, at time.Time) *types.SavedJob {
	tb.Helper()
	s := &types.SavedJob{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		UserID:    userID,
		CreatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed saved job: %v", err)
	}
	return s
}
