package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/repos"
)

// Window selects the trailing period a dashboard metric is computed over.
type Window string

const (
	Window1d  Window = "1d"
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case Window1d, Window7d, Window30d, Window90d:
		return Window(s), nil
	case "":
		return Window30d, nil
	default:
		return "", fmt.Errorf("unknown window %q", s)
	}
}

func (w Window) Duration() time.Duration {
	switch w {
	case Window1d:
		return 24 * time.Hour
	case Window7d:
		return 7 * 24 * time.Hour
	case Window90d:
		return 90 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

type DashboardStats struct {
	Window          Window    `json:"window"`
	JobViews        int64     `json:"job_view"`
	Applications    int64     `json:"application_submit"`
	Interviews      int64     `json:"interview"`
	JobsSaved       int64     `json:"job_saved"`
	NewJobs         int64     `json:"new_jobs"`
	ViewToApplyRate float64   `json:"view_to_apply_rate"`
	GeneratedAt     time.Time `json:"generated_at"`
}

type PersonalStats struct {
	JobViews     int64 `json:"job_view"`
	Applications int64 `json:"application_submit"`
	Interviews   int64 `json:"interview"`
}

type CompanyPerformance struct {
	CompanyID       uuid.UUID `json:"company_id"`
	Window          Window    `json:"window"`
	JobViews        int64     `json:"job_view"`
	Applications    int64     `json:"application_submit"`
	Interviews      int64     `json:"interview"`
	TotalJobs       int64     `json:"total_jobs"`
	ViewToApplyRate float64   `json:"view_to_apply_rate"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// AnalyticsService recomputes every snapshot from the system of record at
// request time. No cache and no incremental counters sit between a request
// and the database, which is what makes these numbers authoritative over
// anything pushed through the socket path.
type AnalyticsService interface {
	DashboardStats(ctx context.Context, window Window) (*DashboardStats, error)
	PersonalStats(ctx context.Context, userID uuid.UUID) (*PersonalStats, error)
	CompanyPerformance(ctx context.Context, companyID uuid.UUID, window Window) (*CompanyPerformance, error)
}

type analyticsService struct {
	db              *gorm.DB
	log             *logger.Logger
	jobRepo         repos.JobRepo
	jobViewRepo     repos.JobViewRepo
	applicationRepo repos.ApplicationRepo
	interviewRepo   repos.InterviewRepo
	savedJobRepo    repos.SavedJobRepo
	now             func() time.Time
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	jobRepo repos.JobRepo,
	jobViewRepo repos.JobViewRepo,
	applicationRepo repos.ApplicationRepo,
	interviewRepo repos.InterviewRepo,
	savedJobRepo repos.SavedJobRepo,
) AnalyticsService {
	serviceLog := log.With("service", "AnalyticsService")
	return &analyticsService{
		db:              db,
		log:             serviceLog,
		jobRepo:         jobRepo,
		jobViewRepo:     jobViewRepo,
		applicationRepo: applicationRepo,
		interviewRepo:   interviewRepo,
		savedJobRepo:    savedJobRepo,
		now:             time.Now,
	}
}

func (s *analyticsService) DashboardStats(ctx context.Context, window Window) (*DashboardStats, error) {
	now := s.now()
	since := now.Add(-window.Duration())

	views, err := s.jobViewRepo.CountSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("count job views: %w", err)
	}
	applications, err := s.applicationRepo.CountSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	interviews, err := s.interviewRepo.CountSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}
	saved, err := s.savedJobRepo.CountSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("count saved jobs: %w", err)
	}
	newJobs, err := s.jobRepo.CountCreatedSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("count new jobs: %w", err)
	}

	return &DashboardStats{
		Window:          window,
		JobViews:        views,
		Applications:    applications,
		Interviews:      interviews,
		JobsSaved:       saved,
		NewJobs:         newJobs,
		ViewToApplyRate: rate(applications, views),
		GeneratedAt:     now,
	}, nil
}

// PersonalStats is always computed over the fixed 30-day window the client
// reconciliation engine expects.
func (s *analyticsService) PersonalStats(ctx context.Context, userID uuid.UUID) (*PersonalStats, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	since := s.now().Add(-Window30d.Duration())

	views, err := s.jobViewRepo.CountByViewerSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("count job views: %w", err)
	}
	applications, err := s.applicationRepo.CountByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	interviews, err := s.interviewRepo.CountByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}

	return &PersonalStats{
		JobViews:     views,
		Applications: applications,
		Interviews:   interviews,
	}, nil
}

func (s *analyticsService) CompanyPerformance(ctx context.Context, companyID uuid.UUID, window Window) (*CompanyPerformance, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("company id required")
	}
	now := s.now()
	since := now.Add(-window.Duration())

	views, err := s.jobViewRepo.CountByCompanySince(ctx, nil, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("count job views: %w", err)
	}
	applications, err := s.applicationRepo.CountByCompanySince(ctx, nil, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	interviews, err := s.interviewRepo.CountByCompanySince(ctx, nil, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}
	totalJobs, err := s.jobRepo.CountByCompanyID(ctx, nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	return &CompanyPerformance{
		CompanyID:       companyID,
		Window:          window,
		JobViews:        views,
		Applications:    applications,
		Interviews:      interviews,
		TotalJobs:       totalJobs,
		ViewToApplyRate: rate(applications, views),
		GeneratedAt:     now,
	}, nil
}

func rate(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}
