package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newEntityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Work with any registered entity by name",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "names",
		Short: "List registered entity names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(strings.Join(a.client.Registry().Names(), "\n") + "\n"))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "get <name> <id>",
		Short:   "Load an entity by registry name and identifier",
		Example: "  zohosub entity get Subscription 903000000045027",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := a.client.GetEntity(cmdContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, entity.Record())
		},
	})

	return cmd
}
