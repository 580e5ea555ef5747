package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kmzclean/internal/batch"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "kmzclean",
		Short:         "Rewrite KMZ overlays for mobile map viewers",
		Long:          "Converts every .kmz and .zip overlay archive in the working directory into a minimal KMZ under processed_kmz/.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// runBatch converts the work directory. Per-file failures are reported in
// the summary and processing log but do not fail the command.
func runBatch(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger()
	if err != nil {
		return err
	}
	store, err := ctx.openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	driver, err := batch.New(cfg, logger, store)
	if err != nil {
		return err
	}
	summary, err := driver.Run(cmd.Context())
	out := cmd.OutOrStdout()
	if len(summary.Results) > 0 || err == nil {
		fmt.Fprint(out, renderSummary(summary, cfg.Paths.LogFile, shouldColorize(out)))
	}
	return err
}
