package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamehub/internal/consistency"
)

func newAuditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Compare stored like counters against the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			rep, err := consistency.NewAuditor(dbc).Audit(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd, rep, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ledger counts:  articles=%d reviews=%d comments=%d total=%d\n",
					rep.RealCounts.Articles, rep.RealCounts.Reviews, rep.RealCounts.Comments, rep.RealCounts.Total)
				fmt.Fprintf(out, "stored counts:  articles=%d reviews=%d comments=%d total=%d\n",
					rep.StoredCounts.Articles, rep.StoredCounts.Reviews, rep.StoredCounts.Comments, rep.StoredCounts.Total)
				for _, d := range rep.Divergences {
					fmt.Fprintf(out, "divergence: %s %d real=%d stored=%d delta=%+d\n",
						d.Type, d.ID, d.Real, d.Stored, d.Delta)
				}
				for _, o := range rep.OrphanedLikes {
					fmt.Fprintf(out, "orphaned like %d: user %d gone (%s %d)\n",
						o.LikeID, o.UserID, o.Type, o.ContentID)
				}
				for _, d := range rep.DanglingLikes {
					fmt.Fprintf(out, "dangling like %d: %s %d gone (user %d)\n",
						d.LikeID, d.Type, d.ContentID, d.UserID)
				}
				if rep.Consistent {
					fmt.Fprintln(out, "consistent: ledger and counters agree")
				} else {
					fmt.Fprintf(out, "inconsistent: %d divergences, %d orphaned, %d dangling (run resync/cleanup)\n",
						len(rep.Divergences), len(rep.OrphanedLikes), len(rep.DanglingLikes))
				}
			})
		},
	}
}

func newResyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Overwrite stored counters with ledger-derived counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			res, err := consistency.NewResynchronizer(dbc).Resync(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "fixed %d counters (articles=%d reviews=%d comments=%d)\n",
					res.Total, res.Articles, res.Reviews, res.Comments)
			})
		},
	}
}

func newCleanupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-orphans",
		Short: "Remove likes whose user no longer exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := opts.openDB()
			if err != nil {
				return err
			}
			defer dbc.Close()

			n, err := consistency.CleanupOrphans(cmd.Context(), dbc)
			if err != nil {
				return err
			}
			return opts.print(cmd, map[string]int{"cleaned": n}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned likes\n", n)
			})
		},
	}
}
