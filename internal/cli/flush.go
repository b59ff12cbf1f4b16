package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

func newFlushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Write all entities back to their resources",
		Long: `Loads the store and writes every entity kind back, rewriting the
resources in canonical form (for example single "group" fields on users).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				if err := s.Flush(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "flushed %s and %s\n", s.Group.Identify(), s.User.Identify())
				return nil
			})
		},
	}
}
