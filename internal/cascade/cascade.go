// Package cascade executes the dependent-removal graphs triggered by
// deleting a user, a comment, an article or a review. Steps run in
// topological order (likes, then comments, then content, then the owner) and
// each step is idempotent, so an interrupted cascade can simply be rerun.
package cascade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"gamehub/internal/content"
	"gamehub/internal/models"
	"gamehub/internal/users"
)

type Coordinator struct {
	db *sql.DB
}

func NewCoordinator(db *sql.DB) *Coordinator {
	return &Coordinator{db: db}
}

// UserDeletion tallies everything a user deletion removed.
type UserDeletion struct {
	Likes               int  `json:"likes"`
	Articles            int  `json:"articles"`
	Reviews             int  `json:"reviews"`
	CommentsHardDeleted int  `json:"comments"`
	CommentsSoftDeleted int  `json:"anonymizedComments"`
	WasAdmin            bool `json:"wasAdmin"`
}

// DeleteUser removes a user and everything it owns:
//
//  1. the user's likes, with the targeted counters decremented
//  2. the user's articles and reviews, with the likes targeting them
//  3. the user's comments, through the comment removal protocol
//  4. the user row itself
//
// Self-deletion goes through this same path; handlers only differ in how
// they authorize the call. Deleting an admin is allowed and logged.
func (c *Coordinator) DeleteUser(ctx context.Context, userID int64) (*UserDeletion, error) {
	store := users.NewStore(c.db)
	u, err := store.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, content.ErrNotFound)
		}
		return nil, err
	}

	out := &UserDeletion{WasAdmin: u.IsAdmin()}
	if out.WasAdmin {
		log.Printf("cascade: deleting admin account %s, admin privileges are lost", u.Email)
	}
	log.Printf("cascade: deleting user %s (id=%d)", u.Email, u.ID)

	n, err := c.removeLikesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete user %d, likes step: %w", userID, err)
	}
	out.Likes = n

	out.Articles, err = c.removeOwnedContent(ctx, models.TypeArticle, userID)
	if err != nil {
		return nil, fmt.Errorf("delete user %d, articles step: %w", userID, err)
	}
	out.Reviews, err = c.removeOwnedContent(ctx, models.TypeReview, userID)
	if err != nil {
		return nil, fmt.Errorf("delete user %d, reviews step: %w", userID, err)
	}

	hard, soft, err := c.removeOwnedComments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete user %d, comments step: %w", userID, err)
	}
	out.CommentsHardDeleted, out.CommentsSoftDeleted = hard, soft

	if err := store.DeleteRow(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete user %d, final step: %w", userID, err)
	}
	log.Printf("cascade: user %d removed (likes=%d articles=%d reviews=%d comments=%d soft=%d)",
		userID, out.Likes, out.Articles, out.Reviews, out.CommentsHardDeleted, out.CommentsSoftDeleted)
	return out, nil
}

// removeLikesByUser drops every ledger row authored by the user and rolls
// each one out of its content's counter, atomically per step. The unique
// constraint guarantees at most one like per (user, content) pair, so a flat
// decrement per targeted row is exact.
func (c *Coordinator) removeLikesByUser(ctx context.Context, userID int64) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, t := range models.ContentTypes {
		table, err := content.Table(t)
		if err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx, `UPDATE `+table+` SET like_count = MAX(0, like_count - 1)
			WHERE id IN (SELECT content_id FROM likes WHERE user_id = ? AND content_type = ?)`, userID, t)
		if err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

// removeOwnedContent deletes every article or review owned by the user,
// together with the likes targeting it and the comment threads under it.
func (c *Coordinator) removeOwnedContent(ctx context.Context, t models.ContentType, userID int64) (int, error) {
	reg := content.NewRegistry(c.db)
	ids, err := reg.IDsByAuthor(ctx, t, userID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := c.deleteContentItem(ctx, t, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// removeOwnedComments applies the removal protocol to every comment of the
// user, newest first so a reply is handled before the parent it would have
// kept alive. Comments that are already soft-deleted placeholders stay as
// they are and are not counted again.
func (c *Coordinator) removeOwnedComments(ctx context.Context, userID int64) (hard, soft int, err error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id FROM comments WHERE author_id = ? AND deleted = 0 ORDER BY id DESC`, userID)
	if err != nil {
		return 0, 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	for _, id := range ids {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return hard, soft, err
		}
		res, err := removeComment(ctx, tx, id)
		if err != nil {
			tx.Rollback()
			return hard, soft, err
		}
		if err := tx.Commit(); err != nil {
			return hard, soft, err
		}
		if res.HardDeleted {
			hard++
		} else {
			soft++
		}
	}
	return hard, soft, nil
}

// ContentDeletion tallies the removal of an article or review.
type ContentDeletion struct {
	Type            models.ContentType `json:"contentType"`
	ID              int64              `json:"id"`
	LikesRemoved    int                `json:"likesRemoved"`
	CommentsRemoved int                `json:"commentsRemoved"`
}

// DeleteContent removes an article or review outright together with its
// likes and its whole comment thread (replies included, and their likes).
// Only articles and reviews go through here; comments have their own
// protocol.
func (c *Coordinator) DeleteContent(ctx context.Context, t models.ContentType, id int64) (*ContentDeletion, error) {
	if t != models.TypeArticle && t != models.TypeReview {
		return nil, fmt.Errorf("cascade delete of %q: %w", t, content.ErrInvalidContentType)
	}
	reg := content.NewRegistry(c.db)
	ok, err := reg.Exists(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", t, id, content.ErrNotFound)
	}
	return c.deleteContentItemTally(ctx, t, id)
}

func (c *Coordinator) deleteContentItem(ctx context.Context, t models.ContentType, id int64) error {
	_, err := c.deleteContentItemTally(ctx, t, id)
	return err
}

func (c *Coordinator) deleteContentItemTally(ctx context.Context, t models.ContentType, id int64) (*ContentDeletion, error) {
	col := "article_id"
	if t == models.TypeReview {
		col = "review_id"
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := &ContentDeletion{Type: t, ID: id}

	// Likes on the thread's comments go first, then the comments, then the
	// item's own likes, then the row.
	_, err = tx.ExecContext(ctx, `DELETE FROM likes WHERE content_type = ?
		AND content_id IN (SELECT id FROM comments WHERE `+col+` = ?)`, models.TypeComment, id)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE `+col+` = ?`, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil {
		out.CommentsRemoved = int(n)
	}
	res, err = tx.ExecContext(ctx, `DELETE FROM likes WHERE content_type = ? AND content_id = ?`, t, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil {
		out.LikesRemoved = int(n)
	}
	if err := content.NewRegistry(tx).DeleteRow(ctx, t, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Printf("cascade: %s %d removed (likes=%d comments=%d)", t, id, out.LikesRemoved, out.CommentsRemoved)
	return out, nil
}
