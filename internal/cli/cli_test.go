package cli_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/internal/cli"
	"gamehub/internal/db"
	"gamehub/internal/likes"
	"gamehub/internal/models"
	"gamehub/internal/testutil"
	"gamehub/internal/users"
)

// seedDB prepares a file-backed database the commands can reopen.
func seedDB(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamehub.db")
	dbc, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbc))
	t.Cleanup(func() { dbc.Close() })
	return path, dbc
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAuditCommand(t *testing.T) {
	path, dbc := seedDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	_, err := likes.NewToggler(dbc).Toggle(context.Background(), u.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)

	out, err := run(t, "audit", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "consistent: ledger and counters agree")

	t.Run("json output", func(t *testing.T) {
		out, err := run(t, "audit", "--db", path, "--json")
		require.NoError(t, err)
		require.Contains(t, out, `"consistent": true`)
	})
}

func TestResyncCommand(t *testing.T) {
	path, dbc := seedDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "drifted")
	_, err := dbc.Exec(`UPDATE articles SET like_count = 7 WHERE id = ?`, a.ID)
	require.NoError(t, err)

	out, err := run(t, "resync", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "fixed 1 counters")

	out, err = run(t, "audit", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "consistent: ledger and counters agree")
}

func TestUsersCommands(t *testing.T) {
	path, dbc := seedDB(t)
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)

	out, err := run(t, "users", "list", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, u.Email)

	_, err = run(t, "users", "promote", "--db", path, "1")
	require.NoError(t, err)
	got, err := users.NewStore(dbc).ByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, got.IsAdmin())

	t.Run("delete needs --yes", func(t *testing.T) {
		_, err := run(t, "users", "delete", "--db", path, "1")
		require.ErrorContains(t, err, "--yes")
	})

	t.Run("delete", func(t *testing.T) {
		out, err := run(t, "users", "delete", "--db", path, "1", "--yes")
		require.NoError(t, err)
		require.Contains(t, out, "deleted user 1")
		_, err = users.NewStore(dbc).ByID(context.Background(), u.ID)
		require.ErrorIs(t, err, users.ErrNotFound)
	})
}

func TestCleanupCommand(t *testing.T) {
	path, dbc := seedDB(t)
	owner := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	ghost := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, owner.ID, "first")
	_, err := likes.NewToggler(dbc).Toggle(context.Background(), ghost.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)
	_, err = dbc.Exec(`DELETE FROM users WHERE id = ?`, ghost.ID)
	require.NoError(t, err)

	out, err := run(t, "cleanup-orphans", "--db", path)
	require.NoError(t, err)
	require.Contains(t, out, "removed 1 orphaned likes")
}
