package main

import (
	"fmt"
	"os"

	"inventory_tracker/internal/app"
	"inventory_tracker/internal/config"
	"inventory_tracker/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "inventory",
		Short:         "Import inventory.csv into inventory.db and manage products interactively",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. 固定文件名，基于当前目录
			cfg, err := config.Load("")
			if err != nil {
				return report(cmd, err)
			}

			log, err := logger.New(logger.Config{Level: cfg.LogLevel, Path: cfg.LogPath})
			if err != nil {
				return report(cmd, fmt.Errorf("init logger: %w", err))
			}
			defer log.Sync()

			if err := app.Run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log); err != nil {
				return report(cmd, err)
			}
			return nil
		},
	}
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "inventory: %v\n", err)
	return err
}
