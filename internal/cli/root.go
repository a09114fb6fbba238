// Package cli implements gamehubctl, the operator's tool for running the
// consistency engine and user administration against the sqlite database
// without going through the HTTP API.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"gamehub/internal/db"
)

// RootOptions holds global flags shared by all subcommands.
type RootOptions struct {
	DBPath string
	JSON   bool
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "gamehubctl",
		Short:         "gamehub administration",
		Long:          "Administrative operations on a gamehub database: consistency audits, counter resync, orphan cleanup and user management.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "./data/gamehub.db", "path to the sqlite database")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "emit JSON instead of text")

	cmd.AddCommand(newAuditCommand(opts))
	cmd.AddCommand(newResyncCommand(opts))
	cmd.AddCommand(newCleanupCommand(opts))
	cmd.AddCommand(newUsersCommand(opts))

	return cmd
}

// openDB opens and migrates the configured database.
func (o *RootOptions) openDB() (*sql.DB, error) {
	dbc, err := db.Open(o.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.DBPath, err)
	}
	if err := db.Migrate(dbc); err != nil {
		dbc.Close()
		return nil, fmt.Errorf("migrate %s: %w", o.DBPath, err)
	}
	return dbc, nil
}

func (o *RootOptions) print(cmd *cobra.Command, v any, text func()) error {
	if o.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}
