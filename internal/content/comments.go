package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamehub/internal/models"
)

// The users join is a LEFT JOIN: a cascade-deleted author leaves placeholder
// comments behind, and those must keep resolving.
const commentCols = `c.id, c.author_id, c.article_id, c.review_id, c.parent_id,
	c.content, c.deleted, c.like_count, c.created_at, COALESCE(u.username, '')`

func scanComment(row interface{ Scan(...any) error }) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.AuthorID, &c.ArticleID, &c.ReviewID, &c.ParentID,
		&c.Content, &c.Deleted, &c.LikeCount, &c.CreatedAt, &c.Author)
	return c, err
}

func (r *Registry) CommentByID(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentCols+`
		FROM comments c LEFT JOIN users u ON u.id = c.author_id WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return c, err
}

// CreateComment validates and inserts a comment. The target article or
// review (exactly one) must exist; a parent comment must exist, sit on the
// same target, and not be a soft-deleted placeholder. Soft-deleted rows
// accept no new replies.
func (r *Registry) CreateComment(ctx context.Context, c *models.Comment) error {
	if (c.ArticleID == nil) == (c.ReviewID == nil) {
		return fmt.Errorf("comment must target exactly one of article or review: %w", ErrInvalidState)
	}
	target := models.TypeArticle
	var targetID int64
	if c.ArticleID != nil {
		targetID = *c.ArticleID
	} else {
		target = models.TypeReview
		targetID = *c.ReviewID
	}
	ok, err := r.Exists(ctx, target, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %d: %w", target, targetID, ErrNotFound)
	}

	if c.ParentID != nil {
		parent, err := r.CommentByID(ctx, *c.ParentID)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}
		sameArticle := c.ArticleID != nil && parent.ArticleID != nil && *parent.ArticleID == *c.ArticleID
		sameReview := c.ReviewID != nil && parent.ReviewID != nil && *parent.ReviewID == *c.ReviewID
		if !sameArticle && !sameReview {
			return fmt.Errorf("parent comment %d is on a different target: %w", parent.ID, ErrInvalidState)
		}
		if parent.Deleted {
			return fmt.Errorf("parent comment %d is deleted: %w", parent.ID, ErrInvalidState)
		}
	}

	now := time.Now()
	res, err := r.db.ExecContext(ctx, `INSERT INTO comments
		(author_id,article_id,review_id,parent_id,content,created_at) VALUES(?,?,?,?,?,?)`,
		c.AuthorID, c.ArticleID, c.ReviewID, c.ParentID, c.Content, now)
	if err != nil {
		return err
	}
	c.ID, _ = res.LastInsertId()
	c.CreatedAt = now
	return nil
}

// ListComments pages through the comments of one article or review,
// newest-first, or most-liked-first when byLikes is set. Soft-deleted
// placeholders are included so threads keep their shape.
func (r *Registry) ListComments(ctx context.Context, target models.ContentType, targetID int64, page, limit int, byLikes bool) ([]models.Comment, int, error) {
	var col string
	switch target {
	case models.TypeArticle:
		col = "article_id"
	case models.TypeReview:
		col = "review_id"
	default:
		return nil, 0, fmt.Errorf("comments target %q: %w", target, ErrInvalidContentType)
	}
	ok, err := r.Exists(ctx, target, targetID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("%s %d: %w", target, targetID, ErrNotFound)
	}
	if limit <= 0 {
		limit = 5
	}
	if page <= 0 {
		page = 1
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE `+col+` = ?`, targetID).Scan(&total); err != nil {
		return nil, 0, err
	}
	order := `c.created_at DESC, c.id DESC`
	if byLikes {
		order = `c.like_count DESC, ` + order
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+commentCols+`
		FROM comments c LEFT JOIN users u ON u.id = c.author_id
		WHERE c.`+col+` = ? ORDER BY `+order+` LIMIT ? OFFSET ?`,
		targetID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// RepliesCount is the hard-delete guard of the comment removal protocol.
func (r *Registry) RepliesCount(ctx context.Context, commentID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE parent_id = ?`, commentID).Scan(&n)
	return n, err
}

// MarkCommentDeleted performs the soft-delete transition: content cleared,
// counter zeroed, row retained as a structural placeholder.
func (r *Registry) MarkCommentDeleted(ctx context.Context, commentID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET deleted = 1, content = '', like_count = 0 WHERE id = ?`, commentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
	}
	return nil
}
