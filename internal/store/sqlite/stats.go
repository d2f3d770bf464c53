package sqlite

import (
	"context"
	"database/sql"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
)

// GetAssociationStats aggregates a user's experience-to-bullet usage.
//
// The average counts only experiences that have at least one link:
// experiences with no links sit on the NULL side of the outer join, and
// AVG ignores NULLs, so they dilute nothing. Two experiences with 3 and
// 0 bullets average 3, not 1.5.
func (s *Store) GetAssociationStats(ctx context.Context, userID int64) (*domain.AssociationStats, error) {
	var (
		stats domain.AssociationStats
		avg   sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT e.id),
			COUNT(DISTINCT eb.bullet_id),
			COUNT(eb.id),
			AVG(counts.bullet_count)
		FROM experience e
		LEFT JOIN experience_bullets eb ON eb.experience_id = e.id
		LEFT JOIN (
			SELECT experience_id, COUNT(*) AS bullet_count
			FROM experience_bullets
			GROUP BY experience_id
		) counts ON counts.experience_id = e.id
		WHERE e.user_id = ?`,
		userID).Scan(
		&stats.TotalExperiences,
		&stats.TotalBulletsUsed,
		&stats.TotalAssociations,
		&avg,
	)
	if err != nil {
		return nil, err
	}

	// No links at all: AVG is NULL, reported as 0.
	if avg.Valid {
		stats.AvgBulletsPerExperience = avg.Float64
	}

	return &stats, nil
}
