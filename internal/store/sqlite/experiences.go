package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

// experienceColumns is the ordered list of columns selected in experience
// queries. Must match the scan order in scanExperience.
const experienceColumns = `id, user_id, company_name, job_title, start_date, end_date,
	is_current, created_at, updated_at`

// scanExperience scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Experience.
func scanExperience(scanner interface{ Scan(dest ...any) error }) (*domain.Experience, error) {
	var e domain.Experience

	var (
		startDate string
		endDate   sql.NullString
		isCurrent int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&e.ID,
		&e.UserID,
		&e.CompanyName,
		&e.JobTitle,
		&startDate,
		&endDate,
		&isCurrent,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

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

	return &e, nil
}

// CreateExperience inserts a new experience and assigns its generated ID.
// A current position is stored with a NULL end date regardless of the
// end date supplied.
func (s *Store) CreateExperience(ctx context.Context, exp *domain.Experience) error {
	now := time.Now()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if exp.IsCurrent {
		exp.EndDate = nil
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO experience (user_id, company_name, job_title, start_date, end_date,
			is_current, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.UserID,
		exp.CompanyName,
		exp.JobTitle,
		formatDate(exp.StartDate),
		nullDateString(exp.EndDate),
		boolToInt(exp.IsCurrent),
		formatTime(exp.CreatedAt),
		formatTime(exp.UpdatedAt),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr.WithCause(err)
		}
		return err
	}

	exp.ID, err = result.LastInsertId()
	return err
}

// GetExperience retrieves an experience by ID regardless of owner.
// Returns store.ErrExperienceNotFound if the experience does not exist.
func (s *Store) GetExperience(ctx context.Context, id int64) (*domain.Experience, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM experience WHERE id = ?`, id)

	e, err := scanExperience(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExperiencesByUser returns a user's experiences in the given order.
// The sort column and direction must come from the store allow-list;
// anything else is rejected before it reaches SQL.
func (s *Store) ListExperiencesByUser(ctx context.Context, userID int64, sort store.ExperienceSort, opts store.ListOptions) ([]*domain.Experience, error) {
	if !store.ValidExperienceSortColumn(sort.Column) || !store.ValidSortDirection(sort.Direction) {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid sort %q %q", sort.Column, sort.Direction))
	}

	query := fmt.Sprintf(`SELECT %s FROM experience WHERE user_id = ? ORDER BY %s %s`,
		experienceColumns, sort.Column, sort.Direction)
	args := []any{userID}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var experiences []*domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return experiences, nil
}

// UpdateExperience performs a full row update on an existing experience.
// A current position is stored with a NULL end date regardless of the
// end date supplied.
// Returns store.ErrExperienceNotFound if the experience does not exist.
func (s *Store) UpdateExperience(ctx context.Context, exp *domain.Experience) error {
	exp.UpdatedAt = time.Now()
	if exp.IsCurrent {
		exp.EndDate = nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE experience SET
			company_name = ?,
			job_title = ?,
			start_date = ?,
			end_date = ?,
			is_current = ?,
			updated_at = ?
		WHERE id = ?`,
		exp.CompanyName,
		exp.JobTitle,
		formatDate(exp.StartDate),
		nullDateString(exp.EndDate),
		boolToInt(exp.IsCurrent),
		formatTime(exp.UpdatedAt),
		exp.ID,
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr.WithCause(err)
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrExperienceNotFound
	}
	return nil
}

// DeleteExperience removes an experience and, in the same transaction,
// every association that references it. Returns the number of associations
// removed alongside the experience.
// Returns store.ErrExperienceNotFound if the experience does not exist.
func (s *Store) DeleteExperience(ctx context.Context, id int64) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	linkResult, err := tx.ExecContext(ctx,
		`DELETE FROM experience_bullets WHERE experience_id = ?`, id)
	if err != nil {
		return 0, err
	}
	links, err := linkResult.RowsAffected()
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM experience WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrExperienceNotFound
	}

	return int(links), tx.Commit()
}

// CountExperiencesByUser returns the number of experiences a user has.
func (s *Store) CountExperiencesByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM experience WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
