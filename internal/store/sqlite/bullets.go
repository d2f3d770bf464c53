package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

// bulletColumns is the ordered list of columns selected in bullet queries.
// Must match the scan order in scanBullet.
const bulletColumns = `id, user_id, text, created_at, updated_at`

// scanBullet scans a sql.Row (or sql.Rows via its Scan method) into a domain.Bullet.
func scanBullet(scanner interface{ Scan(dest ...any) error }) (*domain.Bullet, error) {
	var b domain.Bullet

	var createdAt, updatedAt string

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.Text,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// escapeLike escapes LIKE wildcards in a user-supplied search term so the
// term matches literally. Paired with ESCAPE '\' in the query.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// CreateBullet inserts a new bullet and assigns its generated ID.
// Returns store.ErrInvalidInput if the text exceeds the length limit.
func (s *Store) CreateBullet(ctx context.Context, bullet *domain.Bullet) error {
	now := time.Now()
	bullet.CreatedAt = now
	bullet.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO bullets (user_id, text, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		bullet.UserID,
		bullet.Text,
		formatTime(bullet.CreatedAt),
		formatTime(bullet.UpdatedAt),
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr.WithCause(err)
		}
		return err
	}

	bullet.ID, err = result.LastInsertId()
	return err
}

// GetBullet retrieves a bullet by ID regardless of owner.
// Returns store.ErrBulletNotFound if the bullet does not exist.
func (s *Store) GetBullet(ctx context.Context, id int64) (*domain.Bullet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bulletColumns+` FROM bullets WHERE id = ?`, id)

	b, err := scanBullet(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrBulletNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBulletsByUser returns a user's bullets, most recently updated first.
func (s *Store) ListBulletsByUser(ctx context.Context, userID int64, opts store.ListOptions) ([]*domain.Bullet, error) {
	query := `SELECT ` + bulletColumns + ` FROM bullets WHERE user_id = ? ORDER BY updated_at DESC`
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

	var bullets []*domain.Bullet
	for rows.Next() {
		b, err := scanBullet(rows)
		if err != nil {
			return nil, err
		}
		bullets = append(bullets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bullets, nil
}

// SearchBullets returns a user's bullets whose text contains the term,
// case-insensitively, most recently updated first. Wildcards in the term
// match literally.
func (s *Store) SearchBullets(ctx context.Context, userID int64, term string, opts store.ListOptions) ([]*domain.Bullet, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	query := `SELECT ` + bulletColumns + ` FROM bullets
		WHERE user_id = ? AND lower(text) LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC`
	args := []any{userID, pattern}
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bullets []*domain.Bullet
	for rows.Next() {
		b, err := scanBullet(rows)
		if err != nil {
			return nil, err
		}
		bullets = append(bullets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bullets, nil
}

// UpdateBullet performs a full row update on an existing bullet.
// Returns store.ErrBulletNotFound if the bullet does not exist.
func (s *Store) UpdateBullet(ctx context.Context, bullet *domain.Bullet) error {
	bullet.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE bullets SET text = ?, updated_at = ?
		WHERE id = ?`,
		bullet.Text,
		formatTime(bullet.UpdatedAt),
		bullet.ID,
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
		return store.ErrBulletNotFound
	}
	return nil
}

// DeleteBullet removes a bullet and, in the same transaction, every
// association that references it. Returns the number of associations
// removed alongside the bullet.
// Returns store.ErrBulletNotFound if the bullet does not exist.
func (s *Store) DeleteBullet(ctx context.Context, id int64) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	linkResult, err := tx.ExecContext(ctx,
		`DELETE FROM experience_bullets WHERE bullet_id = ?`, id)
	if err != nil {
		return 0, err
	}
	links, err := linkResult.RowsAffected()
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM bullets WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrBulletNotFound
	}

	return int(links), tx.Commit()
}

// CountBulletsByUser returns the number of bullets a user has written.
func (s *Store) CountBulletsByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bullets WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
