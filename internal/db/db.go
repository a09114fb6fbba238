package db

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, db.Ping()
}

func Migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS users(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'visitor' CHECK(role IN ('visitor','admin')),
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions(
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS articles(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			secondary_image TEXT NOT NULL DEFAULT '',
			reading_time TEXT NOT NULL DEFAULT '',
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reviews(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			secondary_image TEXT NOT NULL DEFAULT '',
			reading_time TEXT NOT NULL DEFAULT '',
			game_title TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 0 CHECK(rating BETWEEN 0 AND 10),
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		// Comments belong to exactly one of article/review. No FK cascades:
		// dependent removal is owned by the cascade coordinator so partial
		// failures stay retryable instead of half-firing at the store.
		`CREATE TABLE IF NOT EXISTS comments(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL,
			article_id INTEGER,
			review_id INTEGER,
			parent_id INTEGER,
			content TEXT NOT NULL DEFAULT '',
			deleted INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			CHECK((article_id IS NULL) <> (review_id IS NULL))
		);`,
		// The ledger. The UNIQUE constraint is the uniqueness invariant and
		// the serialization point for racing double-likes. No user FK: the
		// auditor must be able to see an orphaned like to report it.
		`CREATE TABLE IF NOT EXISTS likes(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			content_type TEXT NOT NULL CHECK(content_type IN ('article','review','comment')),
			content_id INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE(user_id, content_type, content_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_likes_content ON likes(content_type, content_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_review ON comments(review_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_author ON comments(author_id);`,
	}
	ctx := context.Background()
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
