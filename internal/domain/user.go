// Package domain defines the core entities of the JobTrail server.
package domain

import "time"

// User is the ownership root for everything in the system.
// Every job, bullet, experience, and bullet link belongs to exactly one user,
// and no operation may cross that boundary.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
