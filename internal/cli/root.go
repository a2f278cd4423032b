// Package cli implements the zohosub command line tool.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the zohosub command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := viper.New()
	var envFile string

	cmd := &cobra.Command{
		Use:          "zohosub",
		Short:        "Query and manage Zoho Subscriptions plans, addons and subscriptions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if err := a.open(cfg, cmd.ErrOrStderr()); err != nil {
				return errors.Join(err, a.close(cmdContext(cmd), cmd.ErrOrStderr()))
			}
			cmd.SetContext(a.startCommand(cmdContext(cmd), cmd.CommandPath()))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to read ZOHO_* variables from")
	flags.String("token", "", "Zoho auth token (ZOHO_AUTH_TOKEN)")
	flags.String("organization", "", "Zoho organization id (ZOHO_ORGANIZATION_ID)")
	flags.String("base-url", "", "API root (ZOHO_BASE_URL)")
	flags.String("cache", "", "cache backend: none, memory or redis (ZOHO_CACHE)")
	flags.String("cache-ttl", "", "cache TTL, seconds or a duration (ZOHO_CACHE_TTL)")
	flags.String("log-level", "", "log level (ZOHO_LOG_LEVEL)")
	flags.Bool("metrics", false, "print collected metrics to stderr on exit (ZOHO_METRICS)")

	if err := bindConfig(v, flags); err != nil {
		cmd.RunE = func(*cobra.Command, []string) error { return err }
		return cmd
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPlansCmd(a))
	cmd.AddCommand(newAddonsCmd(a))
	cmd.AddCommand(newSubscriptionsCmd(a))
	cmd.AddCommand(newEntityCmd(a))
	cmd.AddCommand(newCacheCmd(a))
	closeAfterRun(a, cmd)

	return cmd
}

// closeAfterRun wraps every RunE in the tree so the app is closed when the
// command returns, failed or not. Cobra skips post-run hooks after an error.
func closeAfterRun(a *app, cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		closeAfterRun(a, c)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, a.close(cmdContext(cmd), cmd.ErrOrStderr()))
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
