package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gamehub/internal/cascade"
	"gamehub/internal/users"
)

func newUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration",
	}
	cmd.AddCommand(newUsersListCommand(opts))
	cmd.AddCommand(newUsersPromoteCommand(opts))
	cmd.AddCommand(newUsersDeleteCommand(opts))
	return cmd
}

func newUsersListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			list, err := users.NewStore(dbc).List(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd, list, func() {
				for _, u := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", u.ID, u.Email, u.Username, u.Role)
				}
			})
		},
	}
}

func newUsersPromoteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <user-id>",
		Short: "Grant the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			u, err := users.NewStore(dbc).Promote(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.print(cmd, u, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", u.Username, u.Email)
			})
		},
	}
}

func newUsersDeleteCommand(opts *RootOptions) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete an account and cascade everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete without --yes")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			tally, err := cascade.NewCoordinator(dbc).DeleteUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.print(cmd, tally, func() {
				fmt.Fprintf(cmd.OutOrStdout(),
					"deleted user %d: likes=%d articles=%d reviews=%d comments=%d anonymized=%d\n",
					id, tally.Likes, tally.Articles, tally.Reviews,
					tally.CommentsHardDeleted, tally.CommentsSoftDeleted)
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}
