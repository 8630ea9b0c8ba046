package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
	"github.com/careerbridge/careerbridge-backend/internal/repos"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

// ActivityService performs the durable writes behind each metric and then
// raises the corresponding analytics event. The write always commits first;
// publishing is fire-and-forget and can never fail the mutation.
type ActivityService interface {
	RecordJobView(ctx context.Context, viewerID *uuid.UUID, jobID uuid.UUID) error
	SubmitApplication(ctx context.Context, userID, jobID uuid.UUID) (*types.Application, error)
	ScheduleInterview(ctx context.Context, applicationID uuid.UUID, scheduledAt time.Time) (*types.Interview, error)
	SaveJob(ctx context.Context, userID, jobID uuid.UUID) error
}

type activityService struct {
	db              *gorm.DB
	log             *logger.Logger
	jobRepo         repos.JobRepo
	jobViewRepo     repos.JobViewRepo
	applicationRepo repos.ApplicationRepo
	interviewRepo   repos.InterviewRepo
	savedJobRepo    repos.SavedJobRepo
	publisher       realtime.Publisher
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	jobRepo repos.JobRepo,
	jobViewRepo repos.JobViewRepo,
	applicationRepo repos.ApplicationRepo,
	interviewRepo repos.InterviewRepo,
	savedJobRepo repos.SavedJobRepo,
	publisher realtime.Publisher,
) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	return &activityService{
		db:              db,
		log:             serviceLog,
		jobRepo:         jobRepo,
		jobViewRepo:     jobViewRepo,
		applicationRepo: applicationRepo,
		interviewRepo:   interviewRepo,
		savedJobRepo:    savedJobRepo,
		publisher:       publisher,
	}
}

func (s *activityService) getJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error) {
	jobs, err := s.jobRepo.GetByIDs(ctx, nil, []uuid.UUID{jobID})
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	return jobs[0], nil
}

func (s *activityService) RecordJobView(ctx context.Context, viewerID *uuid.UUID, jobID uuid.UUID) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	view := &types.JobView{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		ViewerID:  viewerID,
	}
	if _, err := s.jobViewRepo.Create(ctx, nil, []*types.JobView{view}); err != nil {
		return fmt.Errorf("record job view: %w", err)
	}

	s.publisher.JobViewed(viewerID, job.ID, job.CompanyID)
	return nil
}

func (s *activityService) SubmitApplication(ctx context.Context, userID, jobID uuid.UUID) (*types.Application, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	application := &types.Application{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		UserID:    userID,
		Status:    types.ApplicationPending,
	}
	if _, err := s.applicationRepo.Create(ctx, nil, []*types.Application{application}); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.publisher.ApplicationSubmitted(userID, job.ID, job.CompanyID)
	return application, nil
}

func (s *activityService) ScheduleInterview(ctx context.Context, applicationID uuid.UUID, scheduledAt time.Time) (*types.Interview, error) {
	applications, err := s.applicationRepo.GetByIDs(ctx, nil, []uuid.UUID{applicationID})
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	if len(applications) == 0 {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}
	application := applications[0]

	interview := &types.Interview{
		ID:            uuid.New(),
		ApplicationID: application.ID,
		JobID:         application.JobID,
		CompanyID:     application.CompanyID,
		UserID:        application.UserID,
		ScheduledAt:   scheduledAt,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.interviewRepo.Create(ctx, tx, []*types.Interview{interview}); err != nil {
			return fmt.Errorf("create interview: %w", err)
		}
		if err := s.applicationRepo.UpdateStatus(ctx, tx, application.ID, types.ApplicationInterview); err != nil {
			return fmt.Errorf("update application status: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.publisher.InterviewScheduled(application.UserID, application.JobID, application.CompanyID)
	return interview, nil
}

func (s *activityService) SaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id required")
	}
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	saved := &types.SavedJob{
		ID:        uuid.New(),
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		UserID:    userID,
	}
	if _, err := s.savedJobRepo.Create(ctx, nil, []*types.SavedJob{saved}); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	s.publisher.JobSaved(userID, job.ID, job.CompanyID)
	return nil
}
