package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gamehub/internal/models"
)

const articleCols = `a.id, a.author_id, a.title, a.slug, a.excerpt, a.content,
	a.image, a.secondary_image, a.reading_time, a.like_count, a.created_at, a.updated_at, u.username`

func scanArticle(row interface{ Scan(...any) error }) (models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Slug, &a.Excerpt, &a.Content,
		&a.Image, &a.SecondaryImage, &a.ReadingTime, &a.LikeCount, &a.CreatedAt, &a.UpdatedAt, &a.Author)
	return a, err
}

func (r *Registry) ListArticles(ctx context.Context, page, limit int) ([]models.Article, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleCols+`
		FROM articles a JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// ArticleByRef resolves either a numeric id or a slug.
func (r *Registry) ArticleByRef(ctx context.Context, ref string) (models.Article, error) {
	q := `SELECT ` + articleCols + ` FROM articles a JOIN users u ON u.id = a.author_id WHERE a.slug = ?`
	arg := any(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		q = `SELECT ` + articleCols + ` FROM articles a JOIN users u ON u.id = a.author_id WHERE a.id = ?`
		arg = id
	}
	a, err := scanArticle(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, fmt.Errorf("article %q: %w", ref, ErrNotFound)
	}
	return a, err
}

func (r *Registry) CreateArticle(ctx context.Context, a *models.Article) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `INSERT INTO articles
		(author_id,title,slug,excerpt,content,image,secondary_image,reading_time,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		a.AuthorID, a.Title, a.Slug, a.Excerpt, a.Content, a.Image, a.SecondaryImage, a.ReadingTime, now, now)
	if IsUniqueViolation(err) {
		return fmt.Errorf("article slug %q: %w", a.Slug, ErrDuplicateSlug)
	}
	if err != nil {
		return err
	}
	a.ID, _ = res.LastInsertId()
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

func (r *Registry) UpdateArticle(ctx context.Context, a *models.Article) error {
	res, err := r.db.ExecContext(ctx, `UPDATE articles SET
		title=?, slug=?, excerpt=?, content=?, image=?, secondary_image=?, reading_time=?, updated_at=?
		WHERE id=?`,
		a.Title, a.Slug, a.Excerpt, a.Content, a.Image, a.SecondaryImage, a.ReadingTime, time.Now(), a.ID)
	if IsUniqueViolation(err) {
		return fmt.Errorf("article slug %q: %w", a.Slug, ErrDuplicateSlug)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("article %d: %w", a.ID, ErrNotFound)
	}
	return nil
}
