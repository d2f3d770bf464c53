package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	domainerrors "github.com/jobtrailapp/jobtrail-server/internal/errors"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
	"github.com/jobtrailapp/jobtrail-server/internal/validation"
)

// JobService manages job applications.
type JobService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewJobService creates a new job application service.
func NewJobService(store store.Store, validator *validation.Validator, logger *slog.Logger) *JobService {
	return &JobService{store: store, validator: validator, logger: logger}
}

// CreateJobRequest contains the fields for a new job application.
type CreateJobRequest struct {
	CompanyName     string  `json:"company_name" validate:"required,max=255"`
	Description     string  `json:"description" validate:"max=5000"`
	ApplicationLink *string `json:"application_link,omitempty" validate:"omitempty,url"`
}

// UpdateJobRequest contains the fields to replace on an existing job.
type UpdateJobRequest struct {
	CompanyName     string  `json:"company_name" validate:"required,max=255"`
	Description     string  `json:"description" validate:"max=5000"`
	ApplicationLink *string `json:"application_link,omitempty" validate:"omitempty,url"`
}

// CreateJob creates a new job application for the user.
func (s *JobService) CreateJob(ctx context.Context, userID int64, req CreateJobRequest) (*domain.Job, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	job := &domain.Job{
		UserID:          userID,
		CompanyName:     req.CompanyName,
		Description:     req.Description,
		ApplicationLink: req.ApplicationLink,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Job created", "job_id", job.ID, "user_id", userID)
	}

	return job, nil
}

// GetJob returns a job owned by the user.
// A missing job is NotFound; someone else's job is Forbidden.
func (s *JobService) GetJob(ctx context.Context, userID, jobID int64) (*domain.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return nil, domainerrors.NotFound("job not found")
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.UserID != userID {
		return nil, domainerrors.Forbidden("job belongs to another user")
	}
	return job, nil
}

// ListJobs returns the user's jobs, most recently updated first.
func (s *JobService) ListJobs(ctx context.Context, userID int64, opts store.ListOptions) ([]*domain.Job, error) {
	jobs, err := s.store.ListJobsByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []*domain.Job{}
	}
	return jobs, nil
}

// UpdateJob replaces the mutable fields of a job owned by the user.
func (s *JobService) UpdateJob(ctx context.Context, userID, jobID int64, req UpdateJobRequest) (*domain.Job, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	job.CompanyName = req.CompanyName
	job.Description = req.Description
	job.ApplicationLink = req.ApplicationLink

	if err := s.store.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// DeleteJob removes a job owned by the user.
func (s *JobService) DeleteJob(ctx context.Context, userID, jobID int64) error {
	if _, err := s.GetJob(ctx, userID, jobID); err != nil {
		return err
	}

	if err := s.store.DeleteJob(ctx, jobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Job deleted", "job_id", jobID, "user_id", userID)
	}
	return nil
}
