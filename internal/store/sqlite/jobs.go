package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

// jobColumns is the ordered list of columns selected in job queries.
// Must match the scan order in scanJob.
const jobColumns = `id, user_id, company_name, description, application_link, created_at, updated_at`

// scanJob scans a sql.Row (or sql.Rows via its Scan method) into a domain.Job.
func scanJob(scanner interface{ Scan(dest ...any) error }) (*domain.Job, error) {
	var j domain.Job

	var (
		applicationLink sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&j.ID,
		&j.UserID,
		&j.CompanyName,
		&j.Description,
		&applicationLink,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if applicationLink.Valid {
		j.ApplicationLink = &applicationLink.String
	}

	j.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	j.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &j, nil
}

// CreateJob inserts a new job application and assigns its generated ID.
// Returns store.ErrInvalidReference if the owning user does not exist.
func (s *Store) CreateJob(ctx context.Context, job *domain.Job) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (user_id, company_name, description, application_link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		job.UserID,
		job.CompanyName,
		job.Description,
		nullableString(job.ApplicationLink),
		formatTime(job.CreatedAt),
		formatTime(job.UpdatedAt),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr.WithCause(err)
		}
		return err
	}

	job.ID, err = result.LastInsertId()
	return err
}

// GetJob retrieves a job by ID regardless of owner. Ownership is checked
// by the service layer so it can distinguish 404 from 403.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *Store) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)

	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListJobsByUser returns a user's jobs, most recently updated first.
func (s *Store) ListJobsByUser(ctx context.Context, userID int64, opts store.ListOptions) ([]*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = ? ORDER BY updated_at DESC`
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

	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJob performs a full row update on an existing job.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *Store) UpdateJob(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET
			company_name = ?,
			description = ?,
			application_link = ?,
			updated_at = ?
		WHERE id = ?`,
		job.CompanyName,
		job.Description,
		nullableString(job.ApplicationLink),
		formatTime(job.UpdatedAt),
		job.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrJobNotFound
	}
	return nil
}

// DeleteJob performs a hard delete of a job by ID.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrJobNotFound
	}
	return nil
}

// CountJobsByUser returns the number of jobs a user has tracked.
func (s *Store) CountJobsByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
