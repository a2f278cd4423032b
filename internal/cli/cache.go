package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached entry of the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.backend == nil {
				return errors.New("no cache configured (use --cache memory or redis)")
			}
			removed, err := a.backend.Clear(cmdContext(cmd))
			if err != nil {
				return err
			}
			a.logger.WithField("removed", removed).Debug("Cache cleared")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d keys removed\n", removed)
			return err
		},
	})

	return cmd
}
