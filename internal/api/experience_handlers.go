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

// wireDateLayout is the YYYY-MM-DD format experience dates travel in.
const wireDateLayout = "2006-01-02"

func (s *Server) registerExperienceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createExperience",
		Method:      http.MethodPost,
		Path:        "/api/v1/experience",
		Summary:     "Create experience",
		Description: "Creates a new work experience",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateExperience)

	huma.Register(s.api, huma.Operation{
		OperationID: "listExperience",
		Method:      http.MethodGet,
		Path:        "/api/v1/experience",
		Summary:     "List experience",
		Description: "Returns the current user's experiences. With include_bullets the list is aggregated with linked bullets, newest start date first, and sort parameters are ignored.",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListExperience)

	huma.Register(s.api, huma.Operation{
		OperationID: "getExperienceStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/experience/stats",
		Summary:     "Get experience stats",
		Description: "Returns aggregated experience-to-bullet usage for the current user",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetExperienceStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getExperience",
		Method:      http.MethodGet,
		Path:        "/api/v1/experience/{id}",
		Summary:     "Get experience",
		Description: "Returns an experience by ID, optionally with its linked bullets",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetExperience)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateExperience",
		Method:      http.MethodPut,
		Path:        "/api/v1/experience/{id}",
		Summary:     "Update experience",
		Description: "Replaces an experience's fields",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateExperience)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteExperience",
		Method:      http.MethodDelete,
		Path:        "/api/v1/experience/{id}",
		Summary:     "Delete experience",
		Description: "Deletes an experience along with its bullet associations. Linked bullets survive.",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteExperience)

	huma.Register(s.api, huma.Operation{
		OperationID: "listExperienceBullets",
		Method:      http.MethodGet,
		Path:        "/api/v1/experience/{id}/bullets",
		Summary:     "List experience bullets",
		Description: "Returns the bullets linked to an experience, in association order",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListExperienceBullets)

	huma.Register(s.api, huma.Operation{
		OperationID: "associateBullet",
		Method:      http.MethodPost,
		Path:        "/api/v1/experience/{id}/bullets",
		Summary:     "Associate bullet",
		Description: "Links a bullet to an experience. Both must belong to the current user, and a pair can only be linked once.",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssociateBullet)

	huma.Register(s.api, huma.Operation{
		OperationID: "disassociateBullet",
		Method:      http.MethodDelete,
		Path:        "/api/v1/experience/{id}/bullets/{bulletId}",
		Summary:     "Disassociate bullet",
		Description: "Removes the link between an experience and a bullet. The bullet itself is untouched.",
		Tags:        []string{"Experience"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDisassociateBullet)
}

// === DTOs ===

// ExperienceRequest is the request body for creating or replacing an experience.
type ExperienceRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=255" doc:"Company name"`
	JobTitle    string  `json:"job_title" validate:"required,max=255" doc:"Job title"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02" doc:"Start date (YYYY-MM-DD)"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02" doc:"End date (YYYY-MM-DD); ignored when is_current is true"`
	IsCurrent   bool    `json:"is_current" required:"false" doc:"Whether this is the current position"`
}

// LinkedBulletResponse is a bullet as it appears under an experience.
type LinkedBulletResponse struct {
	ID           int64     `json:"id" doc:"Bullet ID"`
	Text         string    `json:"text" doc:"Bullet text"`
	CreatedAt    time.Time `json:"created_at" doc:"Bullet creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Bullet last update time"`
	AssociatedAt time.Time `json:"associated_at" doc:"When the bullet was linked to the experience"`
}

// ExperienceResponse contains experience data in API responses.
// Bullets is present only when the caller asked for them.
type ExperienceResponse struct {
	ID          int64                   `json:"id" doc:"Experience ID"`
	CompanyName string                  `json:"company_name" doc:"Company name"`
	JobTitle    string                  `json:"job_title" doc:"Job title"`
	StartDate   string                  `json:"start_date" doc:"Start date (YYYY-MM-DD)"`
	EndDate     *string                 `json:"end_date,omitempty" doc:"End date (YYYY-MM-DD)"`
	IsCurrent   bool                    `json:"is_current" doc:"Whether this is the current position"`
	CreatedAt   time.Time               `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time               `json:"updated_at" doc:"Last update time"`
	Bullets     *[]LinkedBulletResponse `json:"bullets,omitempty" doc:"Linked bullets in association order"`
}

// CreateExperienceInput wraps the create experience request for Huma.
type CreateExperienceInput struct {
	Authorization string `header:"Authorization"`
	Body          ExperienceRequest
}

// ExperienceOutput wraps the experience response for Huma.
type ExperienceOutput struct {
	Body ExperienceResponse
}

// ListExperienceInput contains parameters for listing experiences.
type ListExperienceInput struct {
	Authorization  string `header:"Authorization"`
	OrderBy        string `query:"order_by" doc:"Sort column: start_date, end_date, company_name, job_title, or created_at"`
	OrderDir       string `query:"order_dir" doc:"Sort direction: ASC or DESC"`
	IncludeBullets bool   `query:"include_bullets" doc:"Embed linked bullets in each experience"`
	Limit          int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum results to return"`
	Offset         int    `query:"offset" minimum:"0" doc:"Results to skip"`
}

// ListExperienceResponse contains a list of experiences.
type ListExperienceResponse struct {
	Experience []ExperienceResponse `json:"experience" doc:"Work experiences"`
}

// ListExperienceOutput wraps the experience list for Huma.
type ListExperienceOutput struct {
	Body ListExperienceResponse
}

// GetExperienceInput contains parameters for getting an experience.
type GetExperienceInput struct {
	Authorization  string `header:"Authorization"`
	ID             int64  `path:"id" doc:"Experience ID"`
	IncludeBullets bool   `query:"include_bullets" doc:"Embed linked bullets"`
}

// UpdateExperienceInput wraps the update experience request for Huma.
type UpdateExperienceInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Experience ID"`
	Body          ExperienceRequest
}

// DeleteExperienceInput contains parameters for deleting an experience.
type DeleteExperienceInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Experience ID"`
}

// DeleteExperienceResponse reports what the delete removed.
type DeleteExperienceResponse struct {
	Message             string `json:"message" doc:"Success message"`
	AssociationsRemoved int    `json:"associations_removed" doc:"Number of bullet associations removed"`
}

// DeleteExperienceOutput wraps the delete response for Huma.
type DeleteExperienceOutput struct {
	Body DeleteExperienceResponse
}

// ListExperienceBulletsInput contains parameters for listing linked bullets.
type ListExperienceBulletsInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Experience ID"`
}

// ListExperienceBulletsResponse contains the bullets linked to an experience.
type ListExperienceBulletsResponse struct {
	Bullets []LinkedBulletResponse `json:"bullets" doc:"Linked bullets in association order"`
}

// ListExperienceBulletsOutput wraps the linked bullet list for Huma.
type ListExperienceBulletsOutput struct {
	Body ListExperienceBulletsResponse
}

// AssociateBulletRequest is the request body for linking a bullet.
type AssociateBulletRequest struct {
	BulletID int64 `json:"bullet_id" validate:"required,gt=0" doc:"Bullet to link"`
}

// AssociateBulletInput wraps the associate request for Huma.
type AssociateBulletInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Experience ID"`
	Body          AssociateBulletRequest
}

// BulletLinkResponse contains the created association.
type BulletLinkResponse struct {
	ID           int64     `json:"id" doc:"Association ID"`
	ExperienceID int64     `json:"experience_id" doc:"Experience ID"`
	BulletID     int64     `json:"bullet_id" doc:"Bullet ID"`
	CreatedAt    time.Time `json:"created_at" doc:"When the association was created"`
}

// BulletLinkOutput wraps the association response for Huma.
type BulletLinkOutput struct {
	Body BulletLinkResponse
}

// DisassociateBulletInput contains parameters for removing an association.
type DisassociateBulletInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Experience ID"`
	BulletID      int64  `path:"bulletId" doc:"Bullet ID"`
}

// GetStatsInput contains parameters for fetching experience stats.
type GetStatsInput struct {
	Authorization string `header:"Authorization"`
}

// StatsResponse contains aggregated association statistics.
type StatsResponse struct {
	TotalExperiences        int64   `json:"total_experiences" doc:"Number of experiences"`
	TotalBulletsUsed        int64   `json:"total_bullets_used" doc:"Distinct bullets linked to at least one experience"`
	TotalAssociations       int64   `json:"total_associations" doc:"Total experience-bullet links"`
	AvgBulletsPerExperience float64 `json:"avg_bullets_per_experience" doc:"Average links per experience that has at least one"`
}

// StatsOutput wraps the stats response for Huma.
type StatsOutput struct {
	Body StatsResponse
}

// === Handlers ===

func (s *Server) handleCreateExperience(ctx context.Context, input *CreateExperienceInput) (*ExperienceOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	exp, err := s.services.Experience.CreateExperience(ctx, userID, service.CreateExperienceRequest{
		CompanyName: input.Body.CompanyName,
		JobTitle:    input.Body.JobTitle,
		StartDate:   input.Body.StartDate,
		EndDate:     input.Body.EndDate,
		IsCurrent:   input.Body.IsCurrent,
	})
	if err != nil {
		return nil, err
	}

	return &ExperienceOutput{Body: mapExperienceResponse(exp)}, nil
}

func (s *Server) handleListExperience(ctx context.Context, input *ListExperienceInput) (*ListExperienceOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if input.IncludeBullets {
		results, err := s.services.Experience.ListExperiencesWithBullets(ctx, userID)
		if err != nil {
			return nil, err
		}

		resp := make([]ExperienceResponse, len(results))
		for i, exp := range results {
			resp[i] = mapExperienceWithBullets(exp)
		}
		return &ListExperienceOutput{Body: ListExperienceResponse{Experience: resp}}, nil
	}

	experiences, err := s.services.Experience.ListExperiences(ctx, userID, input.OrderBy, input.OrderDir, store.ListOptions{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]ExperienceResponse, len(experiences))
	for i, exp := range experiences {
		resp[i] = mapExperienceResponse(exp)
	}

	return &ListExperienceOutput{Body: ListExperienceResponse{Experience: resp}}, nil
}

func (s *Server) handleGetExperience(ctx context.Context, input *GetExperienceInput) (*ExperienceOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if input.IncludeBullets {
		exp, err := s.services.Experience.GetExperienceWithBullets(ctx, userID, input.ID)
		if err != nil {
			return nil, err
		}
		return &ExperienceOutput{Body: mapExperienceWithBullets(exp)}, nil
	}

	exp, err := s.services.Experience.GetExperience(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ExperienceOutput{Body: mapExperienceResponse(exp)}, nil
}

func (s *Server) handleUpdateExperience(ctx context.Context, input *UpdateExperienceInput) (*ExperienceOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	exp, err := s.services.Experience.UpdateExperience(ctx, userID, input.ID, service.UpdateExperienceRequest{
		CompanyName: input.Body.CompanyName,
		JobTitle:    input.Body.JobTitle,
		StartDate:   input.Body.StartDate,
		EndDate:     input.Body.EndDate,
		IsCurrent:   input.Body.IsCurrent,
	})
	if err != nil {
		return nil, err
	}

	return &ExperienceOutput{Body: mapExperienceResponse(exp)}, nil
}

func (s *Server) handleDeleteExperience(ctx context.Context, input *DeleteExperienceInput) (*DeleteExperienceOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Experience.DeleteExperience(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteExperienceOutput{
		Body: DeleteExperienceResponse{
			Message:             "Experience deleted",
			AssociationsRemoved: result.AssociationsRemoved,
		},
	}, nil
}

func (s *Server) handleListExperienceBullets(ctx context.Context, input *ListExperienceBulletsInput) (*ListExperienceBulletsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	bullets, err := s.services.Experience.ListExperienceBullets(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListExperienceBulletsOutput{
		Body: ListExperienceBulletsResponse{Bullets: mapLinkedBullets(bullets)},
	}, nil
}

func (s *Server) handleAssociateBullet(ctx context.Context, input *AssociateBulletInput) (*BulletLinkOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	link, err := s.services.Experience.AssociateBullet(ctx, userID, input.ID, input.Body.BulletID)
	if err != nil {
		return nil, err
	}

	return &BulletLinkOutput{
		Body: BulletLinkResponse{
			ID:           link.ID,
			ExperienceID: link.ExperienceID,
			BulletID:     link.BulletID,
			CreatedAt:    link.CreatedAt,
		},
	}, nil
}

func (s *Server) handleDisassociateBullet(ctx context.Context, input *DisassociateBulletInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Experience.DisassociateBullet(ctx, userID, input.ID, input.BulletID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Bullet disassociated"}}, nil
}

func (s *Server) handleGetExperienceStats(ctx context.Context, input *GetStatsInput) (*StatsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Experience.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		Body: StatsResponse{
			TotalExperiences:        stats.TotalExperiences,
			TotalBulletsUsed:        stats.TotalBulletsUsed,
			TotalAssociations:       stats.TotalAssociations,
			AvgBulletsPerExperience: stats.AvgBulletsPerExperience,
		},
	}, nil
}

// === Helpers ===

func formatWireDate(t time.Time) string {
	return t.Format(wireDateLayout)
}

func formatWireDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatWireDate(*t)
	return &s
}

func mapExperienceResponse(exp *domain.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:          exp.ID,
		CompanyName: exp.CompanyName,
		JobTitle:    exp.JobTitle,
		StartDate:   formatWireDate(exp.StartDate),
		EndDate:     formatWireDatePtr(exp.EndDate),
		IsCurrent:   exp.IsCurrent,
		CreatedAt:   exp.CreatedAt,
		UpdatedAt:   exp.UpdatedAt,
	}
}

func mapExperienceWithBullets(exp *domain.ExperienceWithBullets) ExperienceResponse {
	bullets := mapLinkedBullets(exp.Bullets)
	return ExperienceResponse{
		ID:          exp.ID,
		CompanyName: exp.CompanyName,
		JobTitle:    exp.JobTitle,
		StartDate:   formatWireDate(exp.StartDate),
		EndDate:     formatWireDatePtr(exp.EndDate),
		IsCurrent:   exp.IsCurrent,
		CreatedAt:   exp.CreatedAt,
		UpdatedAt:   exp.UpdatedAt,
		Bullets:     &bullets,
	}
}

func mapLinkedBullets(bullets []domain.LinkedBullet) []LinkedBulletResponse {
	resp := make([]LinkedBulletResponse, len(bullets))
	for i, b := range bullets {
		resp[i] = LinkedBulletResponse{
			ID:           b.ID,
			Text:         b.Text,
			CreatedAt:    b.CreatedAt,
			UpdatedAt:    b.UpdatedAt,
			AssociatedAt: b.AssociatedAt,
		}
	}
	return resp
}
