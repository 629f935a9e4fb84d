package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/condensed-game-notifier/internal/ledger"
)

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or clear the record of notified games.",
	}
	cmd.AddCommand(newLedgerCheckCmd(), newLedgerResetCmd())
	return cmd
}

func openLedger(cmd *cobra.Command) (*ledger.Ledger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return ledger.Open(cmd.Context(), ledger.Config{
		Backend:     cfg.Ledger.Backend,
		Path:        cfg.Ledger.Path,
		RedisURL:    cfg.Ledger.RedisURL,
		RedisKey:    cfg.Ledger.RedisKey,
		DatabaseURL: cfg.Ledger.DatabaseURL,
	}, logger)
}

func newLedgerCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <gameID>",
		Short: "Report whether a game has been notified.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := args[0]
			if err := ledger.ValidateGameID(gameID); err != nil {
				return err
			}
			led, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer led.Close()

			recorded, err := led.Check(cmd.Context(), gameID)
			if err != nil {
				return err
			}
			state := "not recorded"
			if recorded {
				state = "recorded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", gameID, state)
			return nil
		},
	}
}

func newLedgerResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every notified game.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := openLedger(cmd)
			if err != nil {
				return err
			}
			defer led.Close()

			if err := led.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ledger reset\n", led.Backend())
			return nil
		},
	}
}
