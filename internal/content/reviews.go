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

const reviewCols = `r.id, r.author_id, r.title, r.slug, r.excerpt, r.content,
	r.image, r.secondary_image, r.reading_time, r.game_title, r.platform, r.genre,
	r.rating, r.like_count, r.created_at, r.updated_at, u.username`

func scanReview(row interface{ Scan(...any) error }) (models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.AuthorID, &rv.Title, &rv.Slug, &rv.Excerpt, &rv.Content,
		&rv.Image, &rv.SecondaryImage, &rv.ReadingTime, &rv.GameTitle, &rv.Platform, &rv.Genre,
		&rv.Rating, &rv.LikeCount, &rv.CreatedAt, &rv.UpdatedAt, &rv.Author)
	return rv, err
}

func (r *Registry) ListReviews(ctx context.Context, page, limit int) ([]models.Review, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+reviewCols+`
		FROM reviews r JOIN users u ON u.id = r.author_id
		ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

// ReviewByRef resolves either a numeric id or a slug.
func (r *Registry) ReviewByRef(ctx context.Context, ref string) (models.Review, error) {
	q := `SELECT ` + reviewCols + ` FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.slug = ?`
	arg := any(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		q = `SELECT ` + reviewCols + ` FROM reviews r JOIN users u ON u.id = r.author_id WHERE r.id = ?`
		arg = id
	}
	rv, err := scanReview(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, fmt.Errorf("review %q: %w", ref, ErrNotFound)
	}
	return rv, err
}

func (r *Registry) CreateReview(ctx context.Context, rv *models.Review) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `INSERT INTO reviews
		(author_id,title,slug,excerpt,content,image,secondary_image,reading_time,
		 game_title,platform,genre,rating,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rv.AuthorID, rv.Title, rv.Slug, rv.Excerpt, rv.Content, rv.Image, rv.SecondaryImage,
		rv.ReadingTime, rv.GameTitle, rv.Platform, rv.Genre, rv.Rating, now, now)
	if IsUniqueViolation(err) {
		return fmt.Errorf("review slug %q: %w", rv.Slug, ErrDuplicateSlug)
	}
	if err != nil {
		return err
	}
	rv.ID, _ = res.LastInsertId()
	rv.CreatedAt, rv.UpdatedAt = now, now
	return nil
}

func (r *Registry) UpdateReview(ctx context.Context, rv *models.Review) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET
		title=?, slug=?, excerpt=?, content=?, image=?, secondary_image=?, reading_time=?,
		game_title=?, platform=?, genre=?, rating=?, updated_at=?
		WHERE id=?`,
		rv.Title, rv.Slug, rv.Excerpt, rv.Content, rv.Image, rv.SecondaryImage, rv.ReadingTime,
		rv.GameTitle, rv.Platform, rv.Genre, rv.Rating, time.Now(), rv.ID)
	if IsUniqueViolation(err) {
		return fmt.Errorf("review slug %q: %w", rv.Slug, ErrDuplicateSlug)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("review %d: %w", rv.ID, ErrNotFound)
	}
	return nil
}
