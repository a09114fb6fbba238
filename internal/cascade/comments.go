package cascade

import (
	"context"
	"fmt"
	"log"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

// CommentDeletion reports how a comment left the system.
type CommentDeletion struct {
	CommentID    int64 `json:"commentId"`
	LikesRemoved int   `json:"likesRemoved"`
	HardDeleted  bool  `json:"hardDeleted"`
}

// removeComment runs the comment removal protocol against the given
// transaction: likes off first, then hard-delete when the comment has no
// replies, soft-delete (placeholder row) when it has.
//
// The reply count is the single guard of the state machine; it is evaluated
// here, inside the same transaction as the transition it decides.
func removeComment(ctx context.Context, tx content.DBTX, commentID int64) (CommentDeletion, error) {
	reg := content.NewRegistry(tx)
	out := CommentDeletion{CommentID: commentID}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE content_type = ? AND content_id = ?`, models.TypeComment, commentID)
	if err != nil {
		return out, err
	}
	if n, err := res.RowsAffected(); err == nil {
		out.LikesRemoved = int(n)
	}

	replies, err := reg.RepliesCount(ctx, commentID)
	if err != nil {
		return out, err
	}
	if replies == 0 {
		if err := reg.DeleteRow(ctx, models.TypeComment, commentID); err != nil {
			return out, err
		}
		out.HardDeleted = true
		return out, nil
	}
	if err := reg.MarkCommentDeleted(ctx, commentID); err != nil {
		return out, err
	}
	return out, nil
}

// DeleteComment removes a comment on behalf of a requester. Authorization
// (author or admin) is checked before any mutation.
func (c *Coordinator) DeleteComment(ctx context.Context, commentID int64, requester models.User) (CommentDeletion, error) {
	reg := content.NewRegistry(c.db)
	cm, err := reg.CommentByID(ctx, commentID)
	if err != nil {
		return CommentDeletion{}, err
	}
	if cm.AuthorID != requester.ID && !requester.IsAdmin() {
		return CommentDeletion{}, fmt.Errorf("user %d may not delete comment %d: %w",
			requester.ID, commentID, content.ErrForbidden)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return CommentDeletion{}, err
	}
	defer tx.Rollback()

	out, err := removeComment(ctx, tx, commentID)
	if err != nil {
		return CommentDeletion{}, err
	}
	if err := tx.Commit(); err != nil {
		return CommentDeletion{}, err
	}
	if out.HardDeleted {
		log.Printf("cascade: comment %d hard-deleted (%d likes removed)", commentID, out.LikesRemoved)
	} else {
		log.Printf("cascade: comment %d soft-deleted, replies retained (%d likes removed)", commentID, out.LikesRemoved)
	}
	return out, nil
}

// ForceDeleteComment removes an already soft-deleted placeholder outright.
// It refuses any comment not currently soft-deleted. It does not re-check
// for replies: new replies cannot attach to a soft-deleted parent, so the
// placeholder is only load-bearing for replies that existed at soft-delete
// time, and the author or an admin may still decide to drop it.
func (c *Coordinator) ForceDeleteComment(ctx context.Context, commentID int64, requester models.User) (CommentDeletion, error) {
	reg := content.NewRegistry(c.db)
	cm, err := reg.CommentByID(ctx, commentID)
	if err != nil {
		return CommentDeletion{}, err
	}
	if !cm.Deleted {
		return CommentDeletion{}, fmt.Errorf("comment %d is not soft-deleted: %w",
			commentID, content.ErrInvalidState)
	}
	if cm.AuthorID != requester.ID && !requester.IsAdmin() {
		return CommentDeletion{}, fmt.Errorf("user %d may not force-delete comment %d: %w",
			requester.ID, commentID, content.ErrForbidden)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return CommentDeletion{}, err
	}
	defer tx.Rollback()

	out := CommentDeletion{CommentID: commentID, HardDeleted: true}
	// Soft-delete already dropped the likes; this sweep is defensive.
	res, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE content_type = ? AND content_id = ?`, models.TypeComment, commentID)
	if err != nil {
		return CommentDeletion{}, err
	}
	if n, err := res.RowsAffected(); err == nil {
		out.LikesRemoved = int(n)
	}
	if err := content.NewRegistry(tx).DeleteRow(ctx, models.TypeComment, commentID); err != nil {
		return CommentDeletion{}, err
	}
	if err := tx.Commit(); err != nil {
		return CommentDeletion{}, err
	}
	log.Printf("cascade: comment %d force-deleted", commentID)
	return out, nil
}
