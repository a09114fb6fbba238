package likes

import (
	"context"
	"database/sql"
)

// TopContent is one entry of the most-liked lists.
type TopContent struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	LikeCount int    `json:"likeCount"`
}

// TopLiker is a user ranked by how many likes they have given.
type TopLiker struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Likes    int    `json:"likesCount"`
}

// Stats is the admin overview. Totals come from the stored counters (the
// display-path numbers); the auditor is the tool for checking them against
// the ledger.
type Stats struct {
	TotalLikes        int          `json:"totalLikes"`
	TotalArticleLikes int          `json:"totalArticleLikes"`
	TotalReviewLikes  int          `json:"totalReviewLikes"`
	TotalCommentLikes int          `json:"totalCommentLikes"`
	TopArticles       []TopContent `json:"topArticles"`
	TopReviews        []TopContent `json:"topReviews"`
	TopLikers         []TopLiker   `json:"topLikers"`
}

const statsTopN = 5

func GatherStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	s := &Stats{}

	for _, q := range []struct {
		sql  string
		dest *int
	}{
		{`SELECT IFNULL(SUM(like_count),0) FROM articles`, &s.TotalArticleLikes},
		{`SELECT IFNULL(SUM(like_count),0) FROM reviews`, &s.TotalReviewLikes},
		{`SELECT IFNULL(SUM(like_count),0) FROM comments`, &s.TotalCommentLikes},
	} {
		if err := db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	s.TotalLikes = s.TotalArticleLikes + s.TotalReviewLikes + s.TotalCommentLikes

	var err error
	if s.TopArticles, err = topContent(ctx, db, "articles"); err != nil {
		return nil, err
	}
	if s.TopReviews, err = topContent(ctx, db, "reviews"); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT u.id, u.username, COUNT(*) AS n
		FROM likes l JOIN users u ON u.id = l.user_id
		GROUP BY u.id, u.username ORDER BY n DESC, u.id LIMIT ?`, statsTopN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TopLiker
		if err := rows.Scan(&t.UserID, &t.Username, &t.Likes); err != nil {
			return nil, err
		}
		s.TopLikers = append(s.TopLikers, t)
	}
	return s, rows.Err()
}

func topContent(ctx context.Context, db *sql.DB, table string) ([]TopContent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, like_count FROM `+table+` ORDER BY like_count DESC, id LIMIT ?`, statsTopN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TopContent
	for rows.Next() {
		var t TopContent
		if err := rows.Scan(&t.ID, &t.Title, &t.LikeCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
