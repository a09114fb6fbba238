// Package testutil provides the shared fixtures the engine tests build
// their worlds from: an in-memory database plus seed helpers for users and
// content.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/internal/content"
	"gamehub/internal/db"
	"gamehub/internal/models"
	"gamehub/internal/users"
)

// OpenDB returns a migrated in-memory sqlite database that closes with the
// test.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	dbc, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbc))
	t.Cleanup(func() { dbc.Close() })
	return dbc
}

// CreateUser seeds an account. The password hash is a fixed placeholder;
// auth tests that care about real hashes create their own users.
func CreateUser(t *testing.T, dbc *sql.DB, email string, role models.Role) models.User {
	t.Helper()
	u := models.User{
		Email:        email,
		Username:     strings.SplitN(email, "@", 2)[0],
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, users.NewStore(dbc).Create(context.Background(), &u))
	return u
}

func CreateArticle(t *testing.T, dbc *sql.DB, authorID int64, slug string) models.Article {
	t.Helper()
	a := models.Article{AuthorID: authorID, Title: "Article " + slug, Slug: slug}
	require.NoError(t, content.NewRegistry(dbc).CreateArticle(context.Background(), &a))
	return a
}

func CreateReview(t *testing.T, dbc *sql.DB, authorID int64, slug string) models.Review {
	t.Helper()
	rv := models.Review{AuthorID: authorID, Title: "Review " + slug, Slug: slug, GameTitle: "Game", Rating: 7}
	require.NoError(t, content.NewRegistry(dbc).CreateReview(context.Background(), &rv))
	return rv
}

// CreateComment seeds a comment on an article (parentID may be nil).
func CreateComment(t *testing.T, dbc *sql.DB, authorID, articleID int64, parentID *int64) models.Comment {
	t.Helper()
	c := models.Comment{AuthorID: authorID, ArticleID: &articleID, ParentID: parentID, Content: "a comment"}
	require.NoError(t, content.NewRegistry(dbc).CreateComment(context.Background(), &c))
	return c
}

// NewEmail yields unique addresses within a test.
func NewEmail(i int) string {
	return fmt.Sprintf("user%d@test.local", i)
}
