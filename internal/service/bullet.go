package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	domainerrors "github.com/jobtrailapp/jobtrail-server/internal/errors"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
	"github.com/jobtrailapp/jobtrail-server/internal/validation"
)

// defaultSearchLimit bounds bullet searches that don't ask for a limit.
const defaultSearchLimit = 50

// BulletService manages resume bullets.
type BulletService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBulletService creates a new bullet service.
func NewBulletService(store store.Store, validator *validation.Validator, logger *slog.Logger) *BulletService {
	return &BulletService{store: store, validator: validator, logger: logger}
}

// CreateBulletRequest contains the text for a new bullet.
type CreateBulletRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// UpdateBulletRequest contains the replacement text for a bullet.
type UpdateBulletRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// DeleteBulletResult reports what a bullet delete removed.
type DeleteBulletResult struct {
	AssociationsRemoved int `json:"associations_removed"`
}

// CreateBullet creates a new bullet for the user.
func (s *BulletService) CreateBullet(ctx context.Context, userID int64, req CreateBulletRequest) (*domain.Bullet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bullet := &domain.Bullet{
		UserID: userID,
		Text:   strings.TrimSpace(req.Text),
	}
	if bullet.Text == "" {
		return nil, domainerrors.Validation("text cannot be blank")
	}

	if err := s.store.CreateBullet(ctx, bullet); err != nil {
		return nil, fmt.Errorf("create bullet: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Bullet created", "bullet_id", bullet.ID, "user_id", userID)
	}

	return bullet, nil
}

// GetBullet returns a bullet owned by the user.
// A missing bullet is NotFound; someone else's bullet is Forbidden.
func (s *BulletService) GetBullet(ctx context.Context, userID, bulletID int64) (*domain.Bullet, error) {
	bullet, err := s.store.GetBullet(ctx, bulletID)
	if err != nil {
		if errors.Is(err, store.ErrBulletNotFound) {
			return nil, domainerrors.NotFound("bullet not found")
		}
		return nil, fmt.Errorf("get bullet: %w", err)
	}
	if bullet.UserID != userID {
		return nil, domainerrors.Forbidden("bullet belongs to another user")
	}
	return bullet, nil
}

// ListBullets returns the user's bullets, most recently updated first.
func (s *BulletService) ListBullets(ctx context.Context, userID int64, opts store.ListOptions) ([]*domain.Bullet, error) {
	bullets, err := s.store.ListBulletsByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list bullets: %w", err)
	}
	if bullets == nil {
		bullets = []*domain.Bullet{}
	}
	return bullets, nil
}

// SearchBullets returns the user's bullets whose text contains the term,
// case-insensitively. A blank term is a validation error.
func (s *BulletService) SearchBullets(ctx context.Context, userID int64, term string, opts store.ListOptions) ([]*domain.Bullet, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domainerrors.Validation("search term cannot be blank")
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}

	bullets, err := s.store.SearchBullets(ctx, userID, term, opts)
	if err != nil {
		return nil, fmt.Errorf("search bullets: %w", err)
	}
	if bullets == nil {
		bullets = []*domain.Bullet{}
	}
	return bullets, nil
}

// UpdateBullet replaces the text of a bullet owned by the user.
// Every experience linked to the bullet sees the new text.
func (s *BulletService) UpdateBullet(ctx context.Context, userID, bulletID int64, req UpdateBulletRequest) (*domain.Bullet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bullet, err := s.GetBullet(ctx, userID, bulletID)
	if err != nil {
		return nil, err
	}

	bullet.Text = strings.TrimSpace(req.Text)
	if bullet.Text == "" {
		return nil, domainerrors.Validation("text cannot be blank")
	}

	if err := s.store.UpdateBullet(ctx, bullet); err != nil {
		return nil, fmt.Errorf("update bullet: %w", err)
	}
	return bullet, nil
}

// DeleteBullet removes a bullet owned by the user along with every
// association that references it, and reports how many were removed.
func (s *BulletService) DeleteBullet(ctx context.Context, userID, bulletID int64) (*DeleteBulletResult, error) {
	if _, err := s.GetBullet(ctx, userID, bulletID); err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteBullet(ctx, bulletID)
	if err != nil {
		return nil, fmt.Errorf("delete bullet: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Bullet deleted", "bullet_id", bulletID, "user_id", userID, "associations_removed", removed)
	}

	return &DeleteBulletResult{AssociationsRemoved: removed}, nil
}
