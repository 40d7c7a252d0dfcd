package commands

import (
	"context"
	"log/slog"

	"boxd/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	httpDump   string

	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "boxd-cli",
	Short:         "boxd-cli reads films, ratings and lists from letterboxd and edits your lists.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "boxd-cli")
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := tel.Shutdown(context.WithoutCancel(cmd.Context()))
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigFile, "The config file holding the site url and your credentials.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every request.")
	rootCmd.PersistentFlags().StringVar(&httpDump, "http-dump", "", "Write every request and response to this directory, which must be empty or hold earlier dumps. <dev_state>/... is accepted.")
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
