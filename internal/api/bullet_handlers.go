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

func (s *Server) registerBulletRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createBullet",
		Method:      http.MethodPost,
		Path:        "/api/v1/bullets",
		Summary:     "Create bullet",
		Description: "Creates a new resume bullet",
		Tags:        []string{"Bullets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBullet)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBullets",
		Method:      http.MethodGet,
		Path:        "/api/v1/bullets",
		Summary:     "List bullets",
		Description: "Returns the current user's bullets, most recently updated first. A search term filters by text, case-insensitively.",
		Tags:        []string{"Bullets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBullets)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBullet",
		Method:      http.MethodGet,
		Path:        "/api/v1/bullets/{id}",
		Summary:     "Get bullet",
		Description: "Returns a bullet by ID",
		Tags:        []string{"Bullets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBullet)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBullet",
		Method:      http.MethodPut,
		Path:        "/api/v1/bullets/{id}",
		Summary:     "Update bullet",
		Description: "Replaces a bullet's text. Every experience linked to the bullet sees the new text.",
		Tags:        []string{"Bullets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBullet)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBullet",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bullets/{id}",
		Summary:     "Delete bullet",
		Description: "Deletes a bullet along with its experience associations",
		Tags:        []string{"Bullets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBullet)
}

// === DTOs ===

// BulletRequest is the request body for creating or replacing a bullet.
type BulletRequest struct {
	Text string `json:"text" validate:"required,max=500" doc:"Bullet text"`
}

// BulletResponse contains bullet data in API responses.
type BulletResponse struct {
	ID        int64     `json:"id" doc:"Bullet ID"`
	Text      string    `json:"text" doc:"Bullet text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateBulletInput wraps the create bullet request for Huma.
type CreateBulletInput struct {
	Authorization string `header:"Authorization"`
	Body          BulletRequest
}

// BulletOutput wraps the bullet response for Huma.
type BulletOutput struct {
	Body BulletResponse
}

// ListBulletsInput contains parameters for listing or searching bullets.
type ListBulletsInput struct {
	Authorization string `header:"Authorization"`
	Search        string `query:"search" doc:"Case-insensitive text filter"`
	Limit         int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum results to return"`
	Offset        int    `query:"offset" minimum:"0" doc:"Results to skip"`
}

// ListBulletsResponse contains a list of bullets.
type ListBulletsResponse struct {
	Bullets []BulletResponse `json:"bullets" doc:"Resume bullets"`
}

// ListBulletsOutput wraps the bullet list for Huma.
type ListBulletsOutput struct {
	Body ListBulletsResponse
}

// GetBulletInput contains parameters for getting a bullet.
type GetBulletInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bullet ID"`
}

// UpdateBulletInput wraps the update bullet request for Huma.
type UpdateBulletInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bullet ID"`
	Body          BulletRequest
}

// DeleteBulletInput contains parameters for deleting a bullet.
type DeleteBulletInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Bullet ID"`
}

// DeleteBulletResponse reports what the delete removed.
type DeleteBulletResponse struct {
	Message             string `json:"message" doc:"Success message"`
	AssociationsRemoved int    `json:"associations_removed" doc:"Number of experience associations removed"`
}

// DeleteBulletOutput wraps the delete response for Huma.
type DeleteBulletOutput struct {
	Body DeleteBulletResponse
}

// === Handlers ===

func (s *Server) handleCreateBullet(ctx context.Context, input *CreateBulletInput) (*BulletOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	bullet, err := s.services.Bullet.CreateBullet(ctx, userID, service.CreateBulletRequest{
		Text: input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &BulletOutput{Body: mapBulletResponse(bullet)}, nil
}

func (s *Server) handleListBullets(ctx context.Context, input *ListBulletsInput) (*ListBulletsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	opts := store.ListOptions{Limit: input.Limit, Offset: input.Offset}

	var bullets []*domain.Bullet
	if input.Search != "" {
		bullets, err = s.services.Bullet.SearchBullets(ctx, userID, input.Search, opts)
	} else {
		bullets, err = s.services.Bullet.ListBullets(ctx, userID, opts)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]BulletResponse, len(bullets))
	for i, b := range bullets {
		resp[i] = mapBulletResponse(b)
	}

	return &ListBulletsOutput{Body: ListBulletsResponse{Bullets: resp}}, nil
}

func (s *Server) handleGetBullet(ctx context.Context, input *GetBulletInput) (*BulletOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	bullet, err := s.services.Bullet.GetBullet(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BulletOutput{Body: mapBulletResponse(bullet)}, nil
}

func (s *Server) handleUpdateBullet(ctx context.Context, input *UpdateBulletInput) (*BulletOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	bullet, err := s.services.Bullet.UpdateBullet(ctx, userID, input.ID, service.UpdateBulletRequest{
		Text: input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &BulletOutput{Body: mapBulletResponse(bullet)}, nil
}

func (s *Server) handleDeleteBullet(ctx context.Context, input *DeleteBulletInput) (*DeleteBulletOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Bullet.DeleteBullet(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteBulletOutput{
		Body: DeleteBulletResponse{
			Message:             "Bullet deleted",
			AssociationsRemoved: result.AssociationsRemoved,
		},
	}, nil
}

// === Helpers ===

func mapBulletResponse(b *domain.Bullet) BulletResponse {
	return BulletResponse{
		ID:        b.ID,
		Text:      b.Text,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
