// Package content is the registry for the three likeable entity kinds.
// It owns the denormalized like counters and the only write path to them:
// atomic, store-level relative adjustments floored at zero.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gamehub/internal/models"
)

// Error taxonomy shared by the engine. Handlers map these to status codes;
// raw store errors never cross the boundary.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidContentType    = errors.New("invalid content type")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrDuplicateSlug         = errors.New("slug already exists")
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so registry operations can
// join a caller's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Registry struct {
	db DBTX
}

func NewRegistry(db DBTX) *Registry {
	return &Registry{db: db}
}

// Table returns the backing table for a content type. All three tables share
// the id, author_id and like_count columns the engine relies on.
func Table(t models.ContentType) (string, error) {
	switch t {
	case models.TypeArticle:
		return "articles", nil
	case models.TypeReview:
		return "reviews", nil
	case models.TypeComment:
		return "comments", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, t)
	}
}

func (r *Registry) Exists(ctx context.Context, t models.ContentType, id int64) (bool, error) {
	table, err := Table(t)
	if err != nil {
		return false, err
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// AdjustLikeCount applies a relative counter change in a single UPDATE so
// concurrent toggles never lose an update, flooring the result at zero.
// Returns the fresh counter value.
func (r *Registry) AdjustLikeCount(ctx context.Context, t models.ContentType, id int64, delta int) (int, error) {
	table, err := Table(t)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET like_count = MAX(0, like_count + ?) WHERE id = ?`, delta, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("adjust %s %d: %w", t, id, ErrNotFound)
	}
	count, err := r.LikeCount(ctx, t, id)
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("counter for %s %d is %d: %w", t, id, count, ErrInternalInconsistency)
	}
	return count, nil
}

// LikeCount reads the stored (denormalized) counter, not the ledger.
func (r *Registry) LikeCount(ctx context.Context, t models.ContentType, id int64) (int, error) {
	table, err := Table(t)
	if err != nil {
		return 0, err
	}
	var count int
	err = r.db.QueryRowContext(ctx, `SELECT like_count FROM `+table+` WHERE id = ?`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %d: %w", t, id, ErrNotFound)
	}
	return count, err
}

// IDsByAuthor lists all rows of one type owned by a user.
func (r *Registry) IDsByAuthor(ctx context.Context, t models.ContentType, authorID int64) ([]int64, error) {
	table, err := Table(t)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM `+table+` WHERE author_id = ? ORDER BY id`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRow removes a content row outright. Deleting an already-absent row is
// a no-op so cascade retries stay safe.
func (r *Registry) DeleteRow(ctx context.Context, t models.ContentType, id int64) error {
	table, err := Table(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	return err
}

// IsUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The driver has no typed constraint error, so this matches the
// stable message prefix it emits.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// AuthorOf returns the owning user of a content row.
func (r *Registry) AuthorOf(ctx context.Context, t models.ContentType, id int64) (int64, error) {
	table, err := Table(t)
	if err != nil {
		return 0, err
	}
	var author int64
	err = r.db.QueryRowContext(ctx, `SELECT author_id FROM `+table+` WHERE id = ?`, id).Scan(&author)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %d: %w", t, id, ErrNotFound)
	}
	return author, err
}
