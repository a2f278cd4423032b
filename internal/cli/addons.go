package cli

import "github.com/spf13/cobra"

func newAddonsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addons",
		Short: "List and inspect addons",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every addon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addons, err := a.client.ListAddons(cmdContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, addons)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <addon-code>",
		Short: "Show one addon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addon, err := a.client.GetAddon(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, addon)
		},
	})

	return cmd
}
