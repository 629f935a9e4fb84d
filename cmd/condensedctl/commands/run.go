package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/server"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

var errNotifyFailed = errors.New("no notifier accepted the message")

func newRunCmd() *cobra.Command {
	var opts trigger.Options
	cmd := &cobra.Command{
		Use:   "run [--force] [--override] [--skip-ledger]",
		Short: "Run the pipeline once and print the result as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			comps, err := server.BuildComponents(cmd.Context(), cfg, logger, metrics.NewRecorder())
			if err != nil {
				return err
			}
			defer comps.Close()

			res := comps.Controller.Run(cmd.Context(), opts)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if res.Outcome == trigger.OutcomeNotifyFailed {
				return errNotifyFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Forced, "force", false, "skip the time window and the already-sent check")
	cmd.Flags().BoolVar(&opts.Override, "override", false, "skip only the time window")
	cmd.Flags().BoolVar(&opts.SkipLedgerWrite, "skip-ledger", false, "do not record the game after sending")
	return cmd
}
