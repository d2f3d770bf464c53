package domain

import "time"

// MaxBulletTextLength bounds bullet text at the domain level.
const MaxBulletTextLength = 500

// Bullet is a reusable résumé snippet. Bullets have an independent
// lifecycle from the experiences they are attached to: editing or deleting
// a bullet never touches the experience rows, and deleting one only removes
// its links.
type Bullet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
