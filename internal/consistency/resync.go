package consistency

import (
	"context"
	"database/sql"
	"log"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

// ResyncResult counts repaired counters per content type.
type ResyncResult struct {
	Articles int `json:"articles"`
	Reviews  int `json:"reviews"`
	Comments int `json:"comments"`
	Total    int `json:"total"`
}

// Resynchronizer overwrites stored counters with ledger-derived counts.
type Resynchronizer struct {
	db *sql.DB
}

func NewResynchronizer(db *sql.DB) *Resynchronizer {
	return &Resynchronizer{db: db}
}

// Resync repairs every divergent counter. The WHERE clause only touches rows
// that actually disagree, so a second run with no intervening writes mutates
// nothing and reports zero fixed.
func (r *Resynchronizer) Resync(ctx context.Context) (*ResyncResult, error) {
	res := &ResyncResult{}
	for _, t := range models.ContentTypes {
		fixed, err := r.resyncType(ctx, t)
		if err != nil {
			return nil, err
		}
		switch t {
		case models.TypeArticle:
			res.Articles = fixed
		case models.TypeReview:
			res.Reviews = fixed
		case models.TypeComment:
			res.Comments = fixed
		}
		res.Total += fixed
	}
	if res.Total > 0 {
		log.Printf("resync: fixed %d counters (articles=%d reviews=%d comments=%d)",
			res.Total, res.Articles, res.Reviews, res.Comments)
	}
	return res, nil
}

func (r *Resynchronizer) resyncType(ctx context.Context, t models.ContentType) (int, error) {
	table, err := content.Table(t)
	if err != nil {
		return 0, err
	}
	out, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET like_count =
		(SELECT COUNT(*) FROM likes l WHERE l.content_type = ? AND l.content_id = `+table+`.id)
		WHERE like_count <>
		(SELECT COUNT(*) FROM likes l WHERE l.content_type = ? AND l.content_id = `+table+`.id)`, t, t)
	if err != nil {
		return 0, err
	}
	n, err := out.RowsAffected()
	return int(n), err
}

// CleanupOrphans removes likes whose user no longer exists, rolling their
// weight out of the counters first. Idempotent: with no orphans it is a
// no-op reporting zero cleaned.
func CleanupOrphans(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, t := range models.ContentTypes {
		table, err := content.Table(t)
		if err != nil {
			return 0, err
		}
		// Several orphaned users may have liked the same item, so subtract
		// the per-item orphan count, not a flat one.
		_, err = tx.ExecContext(ctx, `UPDATE `+table+` SET like_count = MAX(0, like_count -
			(SELECT COUNT(*) FROM likes l LEFT JOIN users u ON u.id = l.user_id
				WHERE u.id IS NULL AND l.content_type = ? AND l.content_id = `+table+`.id))
			WHERE id IN (SELECT l.content_id FROM likes l
				LEFT JOIN users u ON u.id = l.user_id
				WHERE u.id IS NULL AND l.content_type = ?)`, t, t)
		if err != nil {
			return 0, err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id NOT IN (SELECT id FROM users)`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("cleanup: removed %d orphaned likes", n)
	}
	return int(n), nil
}
