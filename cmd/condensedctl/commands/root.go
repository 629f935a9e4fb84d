// Package commands implements the condensedctl command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/condensed-game-notifier/internal/config"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "condensedctl",
		Short:         "condensedctl runs the condensed game pipeline once and manages its ledger.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", "", "load variables from this file before reading configuration")
	root.AddCommand(newRunCmd(), newLedgerCmd())
	return root
}

func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the optional env file, then the environment.
// Variables already set in the environment win over the file.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("env-file")
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return config.Config{}, nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "condensedctl",
		Output:  cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}
