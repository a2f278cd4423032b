package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlansCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List and inspect plans",
	}
	cmd.AddCommand(newPlansListCmd(a))
	cmd.AddCommand(newPlansGetCmd(a))
	return cmd
}

func newPlansListCmd(a *app) *cobra.Command {
	var (
		filters    []string
		withAddons bool
		addonType  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans, optionally filtered and joined with their addons",
		Example: `  zohosub plans list --filter status=active
  zohosub plans list --filter interval_unit=months --with-addons --addon-type recurring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}
			plans, err := a.client.ListPlans(cmdContext(cmd), parsed, withAddons, addonType)
			if err != nil {
				return err
			}
			return printJSON(cmd, plans)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "keep plans whose field equals value (key=value, repeatable)")
	cmd.Flags().BoolVar(&withAddons, "with-addons", false, "replace each plan's addons with full addon records")
	cmd.Flags().StringVar(&addonType, "addon-type", "", "with --with-addons, keep only recurring or one_time addons")
	return cmd
}

func newPlansGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <plan-code>",
		Short: "Show one plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.client.GetPlan(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, plan)
		},
	}
}

// parseFilters turns key=value pairs into a filter map. Values stay strings;
// plan filtering compares loosely, so "10" matches a price of 10.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: want key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
