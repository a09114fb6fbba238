// Package likes holds the like ledger, the sole source of truth for who
// liked what, and the toggle coordinator that keeps the denormalized
// counters moving with it.
package likes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

// ErrDuplicate reports a like that already exists for the (user, content,
// type) triple. It is driven by the store's unique constraint, so a racing
// double-insert loses here rather than silently succeeding twice.
var ErrDuplicate = errors.New("already liked")

// ErrNotFound reports a missing ledger row on removal.
var ErrNotFound = errors.New("like not found")

// Ledger records like facts. One row per (user, content, type) triple.
type Ledger struct {
	db content.DBTX
}

func NewLedger(db content.DBTX) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Record(ctx context.Context, userID int64, t models.ContentType, contentID int64) (models.Like, error) {
	if !t.Valid() {
		return models.Like{}, fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}
	now := time.Now()
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO likes(user_id,content_type,content_id,created_at) VALUES(?,?,?,?)`,
		userID, t, contentID, now)
	if content.IsUniqueViolation(err) {
		return models.Like{}, fmt.Errorf("user %d on %s %d: %w", userID, t, contentID, ErrDuplicate)
	}
	if err != nil {
		return models.Like{}, err
	}
	id, _ := res.LastInsertId()
	return models.Like{ID: id, UserID: userID, ContentType: t, ContentID: contentID, CreatedAt: now}, nil
}

func (l *Ledger) Remove(ctx context.Context, userID int64, t models.ContentType, contentID int64) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND content_type = ? AND content_id = ?`,
		userID, t, contentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d on %s %d: %w", userID, t, contentID, ErrNotFound)
	}
	return nil
}

// CountFor is the ledger-derived truth, never the stored counter.
func (l *Ledger) CountFor(ctx context.Context, t models.ContentType, contentID int64) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE content_type = ? AND content_id = ?`, t, contentID).Scan(&n)
	return n, err
}

// IsLikedBy reports whether the user likes the content. A zero user id is
// the anonymous visitor and is never a liker.
func (l *Ledger) IsLikedBy(ctx context.Context, userID int64, t models.ContentType, contentID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	if !t.Valid() {
		return false, fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM likes WHERE user_id = ? AND content_type = ? AND content_id = ? LIMIT 1`,
		userID, t, contentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Liker is one entry of the admin view of a content item's likers.
type Liker struct {
	LikeID   int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	LikedAt  time.Time `json:"likedAt"`
}

// ListFor returns every liking user of a content item, newest first.
func (l *Ledger) ListFor(ctx context.Context, t models.ContentType, contentID int64) ([]Liker, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}
	rows, err := l.db.QueryContext(ctx, `SELECT l.id, u.id, u.username, u.email, l.created_at
		FROM likes l JOIN users u ON u.id = l.user_id
		WHERE l.content_type = ? AND l.content_id = ?
		ORDER BY l.created_at DESC, l.id DESC`, t, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Liker
	for rows.Next() {
		var lk Liker
		if err := rows.Scan(&lk.LikeID, &lk.UserID, &lk.Username, &lk.Email, &lk.LikedAt); err != nil {
			return nil, err
		}
		out = append(out, lk)
	}
	return out, rows.Err()
}
