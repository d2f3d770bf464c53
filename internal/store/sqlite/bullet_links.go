package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

// validateLinkOwnership loads the owners of an experience and a bullet in a
// single query and checks both belong to userID. Absence of either row is
// store.ErrParentMissing; a row owned by someone else is store.ErrNotOwner.
// The distinction matters to the API: 404 for missing, 403 for not-yours.
func validateLinkOwnership(ctx context.Context, tx *sql.Tx, userID, experienceID, bulletID int64) error {
	var expOwner, bulletOwner int64
	err := tx.QueryRowContext(ctx, `
		SELECT e.user_id, b.user_id
		FROM experience e, bullets b
		WHERE e.id = ? AND b.id = ?`,
		experienceID, bulletID).Scan(&expOwner, &bulletOwner)
	if err == sql.ErrNoRows {
		return store.ErrParentMissing
	}
	if err != nil {
		return err
	}
	if expOwner != userID || bulletOwner != userID {
		return store.ErrNotOwner
	}
	return nil
}

// AssociateBullet links a bullet to an experience on behalf of userID.
// Ownership of both rows is validated and the link inserted in one
// transaction, so the link can never outlive a concurrent delete of
// either parent.
//
// Returns store.ErrParentMissing if either row does not exist,
// store.ErrNotOwner if either belongs to another user,
// store.ErrLinkExists if the pair is already linked, and
// store.ErrInvalidReference if a parent vanished between validation
// and insert.
func (s *Store) AssociateBullet(ctx context.Context, userID, experienceID, bulletID int64) (*domain.BulletLink, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := validateLinkOwnership(ctx, tx, userID, experienceID, bulletID); err != nil {
		return nil, err
	}

	link := &domain.BulletLink{
		ExperienceID: experienceID,
		BulletID:     bulletID,
		CreatedAt:    time.Now(),
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO experience_bullets (experience_id, bullet_id, created_at)
		VALUES (?, ?, ?)`,
		link.ExperienceID,
		link.BulletID,
		formatTime(link.CreatedAt),
	)
	if err != nil {
		switch cerr := constraintError(err); {
		case cerr == nil:
			return nil, err
		case cerr.Is(store.ErrAlreadyExists):
			return nil, store.ErrLinkExists.WithCause(err)
		case cerr.Is(store.ErrInvalidReference):
			return nil, store.ErrInvalidReference.WithCause(err)
		default:
			return nil, cerr.WithCause(err)
		}
	}

	link.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return link, tx.Commit()
}

// DisassociateBullet removes the link between an experience and a bullet on
// behalf of userID. Ownership is validated first, so a missing parent is
// store.ErrParentMissing and a foreign parent store.ErrNotOwner; only when
// both parents check out and no link row exists is the answer
// store.ErrLinkNotFound.
func (s *Store) DisassociateBullet(ctx context.Context, userID, experienceID, bulletID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := validateLinkOwnership(ctx, tx, userID, experienceID, bulletID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM experience_bullets WHERE experience_id = ? AND bullet_id = ?`,
		experienceID, bulletID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrLinkNotFound
	}

	return tx.Commit()
}

// ListLinksByExperience returns the bullets linked to an experience in
// association order (oldest link first), each carrying the time it was
// associated.
func (s *Store) ListLinksByExperience(ctx context.Context, experienceID int64) ([]domain.LinkedBullet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.text, b.created_at, b.updated_at, eb.created_at
		FROM experience_bullets eb
		JOIN bullets b ON b.id = eb.bullet_id
		WHERE eb.experience_id = ?
		ORDER BY eb.created_at ASC, eb.id ASC`,
		experienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bullets []domain.LinkedBullet
	for rows.Next() {
		lb, err := scanLinkedBullet(rows)
		if err != nil {
			return nil, err
		}
		bullets = append(bullets, *lb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bullets, nil
}

// ListLinksByBullet returns the raw link rows a bullet holds, oldest first.
// The bullet side has no joined read model; callers wanting the experiences
// themselves resolve the IDs through the experience store.
func (s *Store) ListLinksByBullet(ctx context.Context, bulletID int64) ([]domain.BulletLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, experience_id, bullet_id, created_at
		FROM experience_bullets
		WHERE bullet_id = ?
		ORDER BY created_at ASC, id ASC`,
		bulletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.BulletLink
	for rows.Next() {
		var (
			link      domain.BulletLink
			createdAt string
		)
		if err := rows.Scan(&link.ID, &link.ExperienceID, &link.BulletID, &createdAt); err != nil {
			return nil, err
		}
		link.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// scanLinkedBullet scans a joined bullet+link row into a domain.LinkedBullet.
func scanLinkedBullet(scanner interface{ Scan(dest ...any) error }) (*domain.LinkedBullet, error) {
	var lb domain.LinkedBullet

	var createdAt, updatedAt, associatedAt string

	err := scanner.Scan(
		&lb.ID,
		&lb.Text,
		&createdAt,
		&updatedAt,
		&associatedAt,
	)
	if err != nil {
		return nil, err
	}

	lb.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	lb.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	lb.AssociatedAt, err = parseTime(associatedAt)
	if err != nil {
		return nil, err
	}

	return &lb, nil
}

// GetExperiencesWithBullets returns a user's experiences with their linked
// bullets aggregated in, newest experience first. Experiences with no
// bullets appear with an empty slice: the join is an outer join, never a
// filter. When experienceID is non-nil the result is narrowed to that one
// experience (still subject to user_id, so a foreign ID yields nothing).
func (s *Store) GetExperiencesWithBullets(ctx context.Context, userID int64, experienceID *int64) ([]*domain.ExperienceWithBullets, error) {
	query := `
		SELECT e.id, e.user_id, e.company_name, e.job_title, e.start_date, e.end_date,
			e.is_current, e.created_at, e.updated_at,
			b.id, b.text, b.created_at, b.updated_at, eb.created_at
		FROM experience e
		LEFT JOIN experience_bullets eb ON eb.experience_id = e.id
		LEFT JOIN bullets b ON b.id = eb.bullet_id
		WHERE e.user_id = ?`
	args := []any{userID}
	if experienceID != nil {
		query += ` AND e.id = ?`
		args = append(args, *experienceID)
	}
	query += ` ORDER BY e.start_date DESC, e.id DESC, eb.created_at ASC, eb.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Fold joined rows into one entry per experience. The id tiebreaker
	// in the ORDER BY keeps rows strictly grouped even when experiences
	// share a start date.
	var (
		result []*domain.ExperienceWithBullets
		index  = make(map[int64]*domain.ExperienceWithBullets)
	)

	for rows.Next() {
		var (
			e domain.Experience

			startDate string
			endDate   sql.NullString
			isCurrent int
			createdAt string
			updatedAt string

			bulletID        sql.NullInt64
			bulletText      sql.NullString
			bulletCreatedAt sql.NullString
			bulletUpdatedAt sql.NullString
			associatedAt    sql.NullString
		)

		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CompanyName,
			&e.JobTitle,
			&startDate,
			&endDate,
			&isCurrent,
			&createdAt,
			&updatedAt,
			&bulletID,
			&bulletText,
			&bulletCreatedAt,
			&bulletUpdatedAt,
			&associatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry, seen := index[e.ID]
		if !seen {
			e.StartDate, err = parseDate(startDate)
			if err != nil {
				return nil, err
			}
			e.EndDate, err = parseNullableDate(endDate)
			if err != nil {
				return nil, err
			}
			e.IsCurrent = isCurrent != 0
			e.CreatedAt, err = parseTime(createdAt)
			if err != nil {
				return nil, err
			}
			e.UpdatedAt, err = parseTime(updatedAt)
			if err != nil {
				return nil, err
			}

			entry = &domain.ExperienceWithBullets{
				Experience: e,
				Bullets:    []domain.LinkedBullet{},
			}
			index[e.ID] = entry
			result = append(result, entry)
		}

		// NULL bullet columns mean the experience has no links.
		if !bulletID.Valid {
			continue
		}

		lb := domain.LinkedBullet{
			ID:   bulletID.Int64,
			Text: bulletText.String,
		}
		lb.CreatedAt, err = parseTime(bulletCreatedAt.String)
		if err != nil {
			return nil, err
		}
		lb.UpdatedAt, err = parseTime(bulletUpdatedAt.String)
		if err != nil {
			return nil, err
		}
		lb.AssociatedAt, err = parseTime(associatedAt.String)
		if err != nil {
			return nil, err
		}

		entry.Bullets = append(entry.Bullets, lb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteLinksByExperience removes every association an experience holds.
// Returns the number of links removed; zero is not an error.
func (s *Store) DeleteLinksByExperience(ctx context.Context, experienceID int64) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM experience_bullets WHERE experience_id = ?`, experienceID)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeleteLinksByBullet removes every association a bullet holds.
// Returns the number of links removed; zero is not an error.
func (s *Store) DeleteLinksByBullet(ctx context.Context, bulletID int64) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM experience_bullets WHERE bullet_id = ?`, bulletID)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
