package likes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/internal/content"
	"gamehub/internal/likes"
	"gamehub/internal/models"
	"gamehub/internal/testutil"
)

func TestTogglePairReturnsToOriginalState(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	tg := likes.NewToggler(dbc)

	res, err := tg.Toggle(ctx, u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.Equal(t, 1, res.LikeCount)

	res, err = tg.Toggle(ctx, u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.False(t, res.Liked)
	require.Equal(t, 0, res.LikeCount)

	// ledger and counter agree after the pair
	n, err := likes.NewLedger(dbc).CountFor(ctx, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	stored, err := content.NewRegistry(dbc).LikeCount(ctx, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored)
}

func TestToggleMissingContent(t *testing.T) {
	dbc := testutil.OpenDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	tg := likes.NewToggler(dbc)

	_, err := tg.Toggle(context.Background(), u.ID, models.TypeArticle, 12345)
	require.ErrorIs(t, err, content.ErrNotFound)

	_, err = tg.Toggle(context.Background(), u.ID, "post", 1)
	require.ErrorIs(t, err, content.ErrInvalidContentType)
}

func TestToggleCountersNeverGoNegative(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "drifted")
	tg := likes.NewToggler(dbc)

	res, err := tg.Toggle(ctx, u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.LikeCount)

	// simulate drift: counter already at zero while the like row remains
	_, err = dbc.Exec(`UPDATE articles SET like_count = 0 WHERE id = ?`, a.ID)
	require.NoError(t, err)

	res, err = tg.Toggle(ctx, u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.False(t, res.Liked)
	require.Equal(t, 0, res.LikeCount)
}

func TestToggleCommentsUseTheirOwnCounter(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	c := testutil.CreateComment(t, dbc, u.ID, a.ID, nil)
	tg := likes.NewToggler(dbc)

	res, err := tg.Toggle(ctx, u.ID, models.TypeComment, c.ID)
	require.NoError(t, err)
	require.True(t, res.Liked)
	require.Equal(t, 1, res.LikeCount)

	stored, err := content.NewRegistry(dbc).LikeCount(ctx, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored, "article counter must not move when a comment is liked")
}

func TestStatus(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	tg := likes.NewToggler(dbc)

	_, err := tg.Toggle(ctx, u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)

	st, err := tg.Status(ctx, other.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.False(t, st.Liked)
	require.Equal(t, 1, st.LikeCount)

	st, err = tg.Status(ctx, 0, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.False(t, st.Liked)
}
