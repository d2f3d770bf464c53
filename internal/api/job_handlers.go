package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/service"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

func (s *Server) registerJobRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createJob",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs",
		Summary:     "Create job",
		Description: "Creates a new job application",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "listJobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List jobs",
		Description: "Returns the current user's job applications, most recently updated first",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListJobs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getJob",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Get job",
		Description: "Returns a job application by ID",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateJob",
		Method:      http.MethodPut,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Update job",
		Description: "Replaces a job application's fields",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteJob",
		Method:      http.MethodDelete,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Delete job",
		Description: "Deletes a job application",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteJob)
}

// === DTOs ===

// JobRequest is the request body for creating or replacing a job.
type JobRequest struct {
	CompanyName     string  `json:"company_name" validate:"required,max=255" doc:"Company name"`
	Description     string  `json:"description,omitempty" validate:"omitempty,max=5000" doc:"Role or application notes"`
	ApplicationLink *string `json:"application_link,omitempty" validate:"omitempty,url" doc:"Link to the job posting"`
}

// JobResponse contains job data in API responses.
type JobResponse struct {
	ID              int64     `json:"id" doc:"Job ID"`
	CompanyName     string    `json:"company_name" doc:"Company name"`
	Description     string    `json:"description,omitempty" doc:"Role or application notes"`
	ApplicationLink *string   `json:"application_link,omitempty" doc:"Link to the job posting"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateJobInput wraps the create job request for Huma.
type CreateJobInput struct {
	Authorization string `header:"Authorization"`
	Body          JobRequest
}

// JobOutput wraps the job response for Huma.
type JobOutput struct {
	Body JobResponse
}

// ListJobsInput contains parameters for listing jobs.
type ListJobsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum results to return"`
	Offset        int    `query:"offset" minimum:"0" doc:"Results to skip"`
}

// ListJobsResponse contains a list of jobs.
type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs" doc:"Job applications"`
}

// ListJobsOutput wraps the job list for Huma.
type ListJobsOutput struct {
	Body ListJobsResponse
}

// GetJobInput contains parameters for getting a job.
type GetJobInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Job ID"`
}

// UpdateJobInput wraps the update job request for Huma.
type UpdateJobInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Job ID"`
	Body          JobRequest
}

// DeleteJobInput contains parameters for deleting a job.
type DeleteJobInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Job ID"`
}

// === Handlers ===

func (s *Server) handleCreateJob(ctx context.Context, input *CreateJobInput) (*JobOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Job.CreateJob(ctx, userID, service.CreateJobRequest{
		CompanyName:     input.Body.CompanyName,
		Description:     input.Body.Description,
		ApplicationLink: input.Body.ApplicationLink,
	})
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleListJobs(ctx context.Context, input *ListJobsInput) (*ListJobsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	jobs, err := s.services.Job.ListJobs(ctx, userID, store.ListOptions{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		resp[i] = mapJobResponse(job)
	}

	return &ListJobsOutput{Body: ListJobsResponse{Jobs: resp}}, nil
}

func (s *Server) handleGetJob(ctx context.Context, input *GetJobInput) (*JobOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Job.GetJob(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleUpdateJob(ctx context.Context, input *UpdateJobInput) (*JobOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Job.UpdateJob(ctx, userID, input.ID, service.UpdateJobRequest{
		CompanyName:     input.Body.CompanyName,
		Description:     input.Body.Description,
		ApplicationLink: input.Body.ApplicationLink,
	})
	if err != nil {
		return nil, err
	}

	return &JobOutput{Body: mapJobResponse(job)}, nil
}

func (s *Server) handleDeleteJob(ctx context.Context, input *DeleteJobInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Job.DeleteJob(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Job deleted"}}, nil
}

// === Helpers ===

func mapJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:              job.ID,
		CompanyName:     job.CompanyName,
		Description:     job.Description,
		ApplicationLink: job.ApplicationLink,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}
