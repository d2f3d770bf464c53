package domain

import "time"

// Experience is an employment record.
// Invariant: IsCurrent == true implies EndDate == nil. The store enforces
// this by nulling the end date whenever the current flag is set; the
// validation layer guarantees the converse (a non-nil end date after the
// start date when the flag is false).
type Experience struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CompanyName string     `json:"company_name"`
	JobTitle    string     `json:"job_title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BulletLink is one experience-to-bullet association row.
// At most one link exists per (ExperienceID, BulletID) pair, and both
// parents always belong to the same user.
type BulletLink struct {
	ID           int64     `json:"id"`
	ExperienceID int64     `json:"experience_id"`
	BulletID     int64     `json:"bullet_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// LinkedBullet is a bullet as it appears embedded under an experience,
// carrying the association's creation time alongside the bullet's own.
type LinkedBullet struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	AssociatedAt time.Time `json:"associated_at"`
}

// ExperienceWithBullets is the denormalized read model for an experience
// and its ordered bullet list. It is a distinct type from Experience on
// purpose: callers choose one shape or the other explicitly rather than
// sniffing for an optional field.
type ExperienceWithBullets struct {
	Experience
	Bullets []LinkedBullet `json:"bullets"`
}
