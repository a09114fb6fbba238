package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gamehub/internal/auth"
	"gamehub/internal/models"
	"gamehub/internal/testutil"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, auth.CheckPassword("s3cret", hash))
	require.False(t, auth.CheckPassword("wrong", hash))
}

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestSessionLifecycle(t *testing.T) {
	dbc := testutil.OpenDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleAdmin)
	m := auth.NewManager(dbc, time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Create(rec, u.ID))

	got, ok := m.CurrentUser(requestWithCookies(t, rec))
	require.True(t, ok)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, models.RoleAdmin, got.Role, "role travels with the session")

	t.Run("destroy invalidates the session", func(t *testing.T) {
		r := requestWithCookies(t, rec)
		m.Destroy(httptest.NewRecorder(), r)
		_, ok := m.CurrentUser(r)
		require.False(t, ok)
	})
}

func TestCurrentUserRejectsExpired(t *testing.T) {
	dbc := testutil.OpenDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	m := auth.NewManager(dbc, -time.Minute)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Create(rec, u.ID))

	_, ok := m.CurrentUser(requestWithCookies(t, rec))
	require.False(t, ok)
}

func TestCurrentUserWithoutCookie(t *testing.T) {
	dbc := testutil.OpenDB(t)
	m := auth.NewManager(dbc, time.Hour)

	_, ok := m.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	require.False(t, ok)
}

func TestDestroyAllFor(t *testing.T) {
	dbc := testutil.OpenDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	m := auth.NewManager(dbc, time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Create(rec, u.ID))
	m.DestroyAllFor(u.ID)

	_, ok := m.CurrentUser(requestWithCookies(t, rec))
	require.False(t, ok)
}
