package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Poll the feed and keep the table updated",
	Long: `Runs update cycles: fetch ads changed since the watermark, apply them,
advance the watermark, sleep. Stops after --max-cycles cycles (0 runs until
interrupted).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.lockWriter(); err != nil {
			return err
		}

		if err := applyLoopFlags(cmd, a); err != nil {
			return err
		}

		err = a.newSyncer().Run(ctx)
		if errors.Is(err, context.Canceled) {
			a.log.Info("Interrupted, stopping update loop")
			return nil
		}
		return err
	},
}

// applyLoopFlags lets --max-cycles and --interval override configuration.
func applyLoopFlags(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if !flags.Changed("max-cycles") && !flags.Changed("interval") {
		return nil
	}
	if flags.Changed("max-cycles") {
		a.cfg.Polling.MaxCycles, _ = flags.GetInt("max-cycles")
	}
	if flags.Changed("interval") {
		a.cfg.Polling.IntervalMinutes, _ = flags.GetInt("interval")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log.Info("Loop settings overridden",
		zap.Int("max_cycles", a.cfg.Polling.MaxCycles),
		zap.Int("interval_minutes", a.cfg.Polling.IntervalMinutes),
	)
	return nil
}

func init() {
	updateCmd.Flags().Int("max-cycles", 0, "stop after this many cycles (0 = forever)")
	updateCmd.Flags().Int("interval", 10, "minutes to sleep between cycles")
	RootCmd.AddCommand(updateCmd)
}
