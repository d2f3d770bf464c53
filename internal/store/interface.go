package store

import (
	"context"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	GetSessionsByUser(ctx context.Context, userID int64) ([]*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUser(ctx context.Context, userID int64) (int, error)
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Jobs
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	ListJobsByUser(ctx context.Context, userID int64, opts ListOptions) ([]*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, id int64) error
	CountJobsByUser(ctx context.Context, userID int64) (int64, error)

	// Bullets
	CreateBullet(ctx context.Context, bullet *domain.Bullet) error
	GetBullet(ctx context.Context, id int64) (*domain.Bullet, error)
	ListBulletsByUser(ctx context.Context, userID int64, opts ListOptions) ([]*domain.Bullet, error)
	SearchBullets(ctx context.Context, userID int64, term string, opts ListOptions) ([]*domain.Bullet, error)
	UpdateBullet(ctx context.Context, bullet *domain.Bullet) error
	DeleteBullet(ctx context.Context, id int64) (int, error)
	CountBulletsByUser(ctx context.Context, userID int64) (int64, error)

	// Experiences
	CreateExperience(ctx context.Context, exp *domain.Experience) error
	GetExperience(ctx context.Context, id int64) (*domain.Experience, error)
	ListExperiencesByUser(ctx context.Context, userID int64, sort ExperienceSort, opts ListOptions) ([]*domain.Experience, error)
	UpdateExperience(ctx context.Context, exp *domain.Experience) error
	DeleteExperience(ctx context.Context, id int64) (int, error)
	CountExperiencesByUser(ctx context.Context, userID int64) (int64, error)

	// Experience-bullet associations
	AssociateBullet(ctx context.Context, userID, experienceID, bulletID int64) (*domain.BulletLink, error)
	DisassociateBullet(ctx context.Context, userID, experienceID, bulletID int64) error
	ListLinksByExperience(ctx context.Context, experienceID int64) ([]domain.LinkedBullet, error)
	ListLinksByBullet(ctx context.Context, bulletID int64) ([]domain.BulletLink, error)
	GetExperiencesWithBullets(ctx context.Context, userID int64, experienceID *int64) ([]*domain.ExperienceWithBullets, error)
	DeleteLinksByExperience(ctx context.Context, experienceID int64) (int, error)
	DeleteLinksByBullet(ctx context.Context, bulletID int64) (int, error)

	// Stats
	GetAssociationStats(ctx context.Context, userID int64) (*domain.AssociationStats, error)
}
