package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/internal/content"
	"gamehub/internal/models"
	"gamehub/internal/testutil"
	"gamehub/internal/users"
)

func TestCreate(t *testing.T) {
	dbc := testutil.OpenDB(t)
	store := users.NewStore(dbc)

	u := models.User{Email: "a@test.local", Username: "a", PasswordHash: "x"}
	require.NoError(t, store.Create(context.Background(), &u))
	require.NotZero(t, u.ID)
	require.Equal(t, models.RoleVisitor, u.Role, "role defaults to visitor")

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.User{Email: "a@test.local", Username: "b", PasswordHash: "x"}
		require.ErrorIs(t, store.Create(context.Background(), &dup), users.ErrExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := models.User{Email: "b@test.local", Username: "a", PasswordHash: "x"}
		require.ErrorIs(t, store.Create(context.Background(), &dup), users.ErrExists)
	})
}

func TestLookups(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	store := users.NewStore(dbc)

	got, err := store.ByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	got, err = store.ByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = store.ByID(ctx, 404)
	require.ErrorIs(t, err, users.ErrNotFound)
	_, err = store.ByEmail(ctx, "nobody@test.local")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestPromote(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	store := users.NewStore(dbc)

	ok, err := store.AdminExists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := store.Promote(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsAdmin())

	ok, err = store.AdminExists(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("promoting an admin again is refused", func(t *testing.T) {
		_, err := store.Promote(ctx, u.ID)
		require.ErrorIs(t, err, content.ErrInvalidState)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.Promote(ctx, 404)
		require.ErrorIs(t, err, users.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	store := users.NewStore(dbc)

	require.NoError(t, store.UpdateProfile(ctx, u.ID, "renamed", ""))
	got, err := store.ByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
	require.Equal(t, "x", got.PasswordHash, "empty password keeps the old hash")

	t.Run("taken username", func(t *testing.T) {
		require.ErrorIs(t, store.UpdateProfile(ctx, u.ID, other.Username, ""), users.ErrExists)
	})
}
