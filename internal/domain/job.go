package domain

import "time"

// Job is a job posting the user is applying (or has applied) to.
type Job struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CompanyName     string    `json:"company_name"`
	Description     string    `json:"description"`
	ApplicationLink *string   `json:"application_link,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
