// Package consistency compares the like ledger against the stored counters
// and repairs what diverged. The auditor only reads; the resynchronizer only
// overwrites counters with ledger-derived truth.
package consistency

import (
	"context"
	"database/sql"
	"time"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

// Divergence is one content item whose stored counter disagrees with the
// ledger.
type Divergence struct {
	Type   models.ContentType `json:"contentType"`
	ID     int64              `json:"id"`
	Real   int                `json:"real"`
	Stored int                `json:"stored"`
	Delta  int                `json:"delta"`
}

// OrphanedLike is a ledger row whose user no longer exists.
type OrphanedLike struct {
	LikeID    int64              `json:"likeId"`
	UserID    int64              `json:"userId"`
	Type      models.ContentType `json:"contentType"`
	ContentID int64              `json:"contentId"`
	LikedAt   time.Time          `json:"likedAt"`
}

// DanglingLike is a ledger row whose target content no longer exists.
type DanglingLike struct {
	LikeID    int64              `json:"likeId"`
	UserID    int64              `json:"userId"`
	Type      models.ContentType `json:"contentType"`
	ContentID int64              `json:"contentId"`
}

// TypeTotals carries a per-type sum plus the grand total.
type TypeTotals struct {
	Articles int `json:"articles"`
	Reviews  int `json:"reviews"`
	Comments int `json:"comments"`
	Total    int `json:"total"`
}

func (t *TypeTotals) add(ct models.ContentType, n int) {
	switch ct {
	case models.TypeArticle:
		t.Articles += n
	case models.TypeReview:
		t.Reviews += n
	case models.TypeComment:
		t.Comments += n
	}
	t.Total += n
}

// Report is the full audit outcome. Zero divergences is a normal result,
// not an error.
type Report struct {
	RealCounts    TypeTotals     `json:"realCounts"`
	StoredCounts  TypeTotals     `json:"storedCounts"`
	Divergences   []Divergence   `json:"divergences"`
	OrphanedLikes []OrphanedLike `json:"orphanedLikes"`
	DanglingLikes []DanglingLike `json:"danglingLikes"`
	Consistent    bool           `json:"consistent"`
}

type Auditor struct {
	db *sql.DB
}

func NewAuditor(db *sql.DB) *Auditor {
	return &Auditor{db: db}
}

// Audit walks the whole content registry, compares each stored counter to
// the ledger-derived count, and collects referentially broken likes. It
// mutates nothing and is safe to run repeatedly alongside live traffic.
func (a *Auditor) Audit(ctx context.Context) (*Report, error) {
	rep := &Report{}

	for _, t := range models.ContentTypes {
		if err := a.auditType(ctx, t, rep); err != nil {
			return nil, err
		}
	}

	orphans, err := a.orphanedLikes(ctx)
	if err != nil {
		return nil, err
	}
	rep.OrphanedLikes = orphans

	dangling, err := a.danglingLikes(ctx)
	if err != nil {
		return nil, err
	}
	rep.DanglingLikes = dangling

	rep.Consistent = len(rep.Divergences) == 0 && len(orphans) == 0 && len(dangling) == 0
	return rep, nil
}

func (a *Auditor) auditType(ctx context.Context, t models.ContentType, rep *Report) error {
	table, err := content.Table(t)
	if err != nil {
		return err
	}
	// One pass per type: every item with its stored counter and the ledger
	// count for it.
	rows, err := a.db.QueryContext(ctx, `SELECT c.id, c.like_count,
		(SELECT COUNT(*) FROM likes l WHERE l.content_type = ? AND l.content_id = c.id)
		FROM `+table+` c ORDER BY c.id`, t)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var stored, real int
		if err := rows.Scan(&id, &stored, &real); err != nil {
			return err
		}
		rep.StoredCounts.add(t, stored)
		rep.RealCounts.add(t, real)
		if real != stored {
			rep.Divergences = append(rep.Divergences, Divergence{
				Type: t, ID: id, Real: real, Stored: stored, Delta: real - stored,
			})
		}
	}
	return rows.Err()
}

func (a *Auditor) orphanedLikes(ctx context.Context) ([]OrphanedLike, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT l.id, l.user_id, l.content_type, l.content_id, l.created_at
		FROM likes l LEFT JOIN users u ON u.id = l.user_id
		WHERE u.id IS NULL ORDER BY l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrphanedLike
	for rows.Next() {
		var o OrphanedLike
		if err := rows.Scan(&o.LikeID, &o.UserID, &o.Type, &o.ContentID, &o.LikedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (a *Auditor) danglingLikes(ctx context.Context) ([]DanglingLike, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT l.id, l.user_id, l.content_type, l.content_id FROM likes l
		WHERE (l.content_type = 'article' AND NOT EXISTS (SELECT 1 FROM articles a WHERE a.id = l.content_id))
		   OR (l.content_type = 'review'  AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.id = l.content_id))
		   OR (l.content_type = 'comment' AND NOT EXISTS (SELECT 1 FROM comments c WHERE c.id = l.content_id))
		ORDER BY l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DanglingLike
	for rows.Next() {
		var d DanglingLike
		if err := rows.Scan(&d.LikeID, &d.UserID, &d.Type, &d.ContentID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
