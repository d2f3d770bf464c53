package domain

// AssociationStats aggregates a user's experience-to-bullet usage.
//
// AvgBulletsPerExperience averages the per-experience link counts over the
// experiences that have at least one link: an experience with zero bullets
// contributes to TotalExperiences but not to the average. Two experiences
// with 3 and 0 bullets therefore average 3, not 1.5.
type AssociationStats struct {
	TotalExperiences        int64   `json:"total_experiences"`
	TotalBulletsUsed        int64   `json:"total_bullets_used"`
	TotalAssociations       int64   `json:"total_associations"`
	AvgBulletsPerExperience float64 `json:"avg_bullets_per_experience"`
}
