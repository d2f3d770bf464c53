package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	domainerrors "github.com/jobtrailapp/jobtrail-server/internal/errors"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
	"github.com/jobtrailapp/jobtrail-server/internal/validation"
)

// dateLayout is the wire format for experience dates.
const dateLayout = "2006-01-02"

// ExperienceService manages work experiences and their bullet associations.
type ExperienceService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewExperienceService creates a new experience service.
func NewExperienceService(store store.Store, validator *validation.Validator, logger *slog.Logger) *ExperienceService {
	return &ExperienceService{store: store, validator: validator, logger: logger}
}

// CreateExperienceRequest contains the fields for a new experience.
// Dates travel as YYYY-MM-DD strings.
type CreateExperienceRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=255"`
	JobTitle    string  `json:"job_title" validate:"required,max=255"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool    `json:"is_current"`
}

// UpdateExperienceRequest contains the fields to replace on an experience.
type UpdateExperienceRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=255"`
	JobTitle    string  `json:"job_title" validate:"required,max=255"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool    `json:"is_current"`
}

// DeleteExperienceResult reports what an experience delete removed.
type DeleteExperienceResult struct {
	AssociationsRemoved int `json:"associations_removed"`
}

// parseExperienceDates converts wire dates into domain values and checks
// their ordering. A current position drops any end date supplied.
func parseExperienceDates(startDate string, endDate *string, isCurrent bool) (time.Time, *time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, nil, domainerrors.Validation("start_date must be a valid date")
	}

	if isCurrent || endDate == nil {
		return start, nil, nil
	}

	end, err := time.Parse(dateLayout, *endDate)
	if err != nil {
		return time.Time{}, nil, domainerrors.Validation("end_date must be a valid date")
	}
	if end.Before(start) {
		return time.Time{}, nil, domainerrors.Validation("end_date cannot be before start_date")
	}
	return start, &end, nil
}

// CreateExperience creates a new experience for the user.
func (s *ExperienceService) CreateExperience(ctx context.Context, userID int64, req CreateExperienceRequest) (*domain.Experience, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	start, end, err := parseExperienceDates(req.StartDate, req.EndDate, req.IsCurrent)
	if err != nil {
		return nil, err
	}

	exp := &domain.Experience{
		UserID:      userID,
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		StartDate:   start,
		EndDate:     end,
		IsCurrent:   req.IsCurrent,
	}
	if err := s.store.CreateExperience(ctx, exp); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Experience created", "experience_id", exp.ID, "user_id", userID)
	}

	return exp, nil
}

// GetExperience returns an experience owned by the user.
// A missing experience is NotFound; someone else's is Forbidden.
func (s *ExperienceService) GetExperience(ctx context.Context, userID, experienceID int64) (*domain.Experience, error) {
	exp, err := s.store.GetExperience(ctx, experienceID)
	if err != nil {
		if errors.Is(err, store.ErrExperienceNotFound) {
			return nil, domainerrors.NotFound("experience not found")
		}
		return nil, fmt.Errorf("get experience: %w", err)
	}
	if exp.UserID != userID {
		return nil, domainerrors.Forbidden("experience belongs to another user")
	}
	return exp, nil
}

// GetExperienceWithBullets returns one experience with its linked bullets.
func (s *ExperienceService) GetExperienceWithBullets(ctx context.Context, userID, experienceID int64) (*domain.ExperienceWithBullets, error) {
	// Ownership first so the caller gets 403 rather than an empty 404 for
	// a foreign experience.
	if _, err := s.GetExperience(ctx, userID, experienceID); err != nil {
		return nil, err
	}

	results, err := s.store.GetExperiencesWithBullets(ctx, userID, &experienceID)
	if err != nil {
		return nil, fmt.Errorf("get experience with bullets: %w", err)
	}
	if len(results) == 0 {
		return nil, domainerrors.NotFound("experience not found")
	}
	return results[0], nil
}

// resolveSort converts optional wire sort parameters into a validated
// store sort, rejecting anything outside the allow-list.
func resolveSort(sortBy, direction string) (store.ExperienceSort, error) {
	sort := store.DefaultExperienceSort()
	if sortBy != "" {
		col := store.ExperienceSortColumn(sortBy)
		if !store.ValidExperienceSortColumn(col) {
			return sort, domainerrors.Validationf("invalid sort column %q", sortBy)
		}
		sort.Column = col
	}
	if direction != "" {
		dir := store.SortDirection(direction)
		if !store.ValidSortDirection(dir) {
			return sort, domainerrors.Validationf("invalid sort direction %q", direction)
		}
		sort.Direction = dir
	}
	return sort, nil
}

// ListExperiences returns the user's experiences in the requested order.
func (s *ExperienceService) ListExperiences(ctx context.Context, userID int64, sortBy, direction string, opts store.ListOptions) ([]*domain.Experience, error) {
	sort, err := resolveSort(sortBy, direction)
	if err != nil {
		return nil, err
	}

	experiences, err := s.store.ListExperiencesByUser(ctx, userID, sort, opts)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	if experiences == nil {
		experiences = []*domain.Experience{}
	}
	return experiences, nil
}

// ListExperiencesWithBullets returns all of the user's experiences with
// their linked bullets aggregated in, newest experience first. Experiences
// with no bullets are included with an empty list.
func (s *ExperienceService) ListExperiencesWithBullets(ctx context.Context, userID int64) ([]*domain.ExperienceWithBullets, error) {
	results, err := s.store.GetExperiencesWithBullets(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list experiences with bullets: %w", err)
	}
	if results == nil {
		results = []*domain.ExperienceWithBullets{}
	}
	return results, nil
}

// UpdateExperience replaces the mutable fields of an experience owned by
// the user. Marking it current clears any stored end date.
func (s *ExperienceService) UpdateExperience(ctx context.Context, userID, experienceID int64, req UpdateExperienceRequest) (*domain.Experience, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	start, end, err := parseExperienceDates(req.StartDate, req.EndDate, req.IsCurrent)
	if err != nil {
		return nil, err
	}

	exp, err := s.GetExperience(ctx, userID, experienceID)
	if err != nil {
		return nil, err
	}

	exp.CompanyName = req.CompanyName
	exp.JobTitle = req.JobTitle
	exp.StartDate = start
	exp.EndDate = end
	exp.IsCurrent = req.IsCurrent

	if err := s.store.UpdateExperience(ctx, exp); err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	return exp, nil
}

// DeleteExperience removes an experience owned by the user along with its
// associations, and reports how many were removed. Linked bullets survive.
func (s *ExperienceService) DeleteExperience(ctx context.Context, userID, experienceID int64) (*DeleteExperienceResult, error) {
	if _, err := s.GetExperience(ctx, userID, experienceID); err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteExperience(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("delete experience: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Experience deleted", "experience_id", experienceID, "user_id", userID, "associations_removed", removed)
	}

	return &DeleteExperienceResult{AssociationsRemoved: removed}, nil
}

// AssociateBullet links a bullet to an experience. Both must exist and be
// owned by the user; the pair can only be linked once.
func (s *ExperienceService) AssociateBullet(ctx context.Context, userID, experienceID, bulletID int64) (*domain.BulletLink, error) {
	link, err := s.store.AssociateBullet(ctx, userID, experienceID, bulletID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrParentMissing):
			return nil, domainerrors.NotFound("experience or bullet not found")
		case errors.Is(err, store.ErrNotOwner):
			return nil, domainerrors.Forbidden("experience or bullet belongs to another user")
		case errors.Is(err, store.ErrLinkExists):
			return nil, domainerrors.Conflict("bullet is already associated with this experience")
		case errors.Is(err, store.ErrInvalidReference):
			return nil, domainerrors.InvalidReference("experience or bullet no longer exists")
		default:
			return nil, fmt.Errorf("associate bullet: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Bullet associated",
			"experience_id", experienceID,
			"bullet_id", bulletID,
			"user_id", userID,
		)
	}

	return link, nil
}

// DisassociateBullet removes the link between an experience and a bullet.
// The bullet itself is untouched.
func (s *ExperienceService) DisassociateBullet(ctx context.Context, userID, experienceID, bulletID int64) error {
	err := s.store.DisassociateBullet(ctx, userID, experienceID, bulletID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrParentMissing):
			return domainerrors.NotFound("experience or bullet not found")
		case errors.Is(err, store.ErrNotOwner):
			return domainerrors.Forbidden("experience or bullet belongs to another user")
		case errors.Is(err, store.ErrLinkNotFound):
			return domainerrors.NotFound("association not found")
		default:
			return fmt.Errorf("disassociate bullet: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Bullet disassociated",
			"experience_id", experienceID,
			"bullet_id", bulletID,
			"user_id", userID,
		)
	}

	return nil
}

// ListExperienceBullets returns the bullets linked to an experience owned
// by the user, in association order.
func (s *ExperienceService) ListExperienceBullets(ctx context.Context, userID, experienceID int64) ([]domain.LinkedBullet, error) {
	if _, err := s.GetExperience(ctx, userID, experienceID); err != nil {
		return nil, err
	}

	bullets, err := s.store.ListLinksByExperience(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("list experience bullets: %w", err)
	}
	if bullets == nil {
		bullets = []domain.LinkedBullet{}
	}
	return bullets, nil
}

// GetStats aggregates the user's experience-to-bullet usage.
func (s *ExperienceService) GetStats(ctx context.Context, userID int64) (*domain.AssociationStats, error) {
	stats, err := s.store.GetAssociationStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get association stats: %w", err)
	}
	return stats, nil
}
