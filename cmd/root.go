package cmd

import (
	"context"
	"log/slog"
	"os"
	"path"

	"github.com/pyama86/breachtracker/handler"
	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "breachtracker",
	Short:         "breachtracker logs, classifies and reports data-breach incidents",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.List(true) })
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// defaults to ~/breachtracker.toml
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Error("Failed to get user home directory", slog.Any("error", err))
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", path.Join(home, "breachtracker.toml"), "config file path")
}

func run(cmd *cobra.Command, fn func(h *handler.Handler) error) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	h, err := handler.Bootstrap(ctx, configPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return fn(h)
}
