package api

import (
	"github.com/jobtrailapp/jobtrail-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Session    *service.SessionService
	Job        *service.JobService
	Bullet     *service.BulletService
	Experience *service.ExperienceService
}
