package cmd

import (
	"fmt"
	"os"

	"jobads-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where LoadConfig looks for .env.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "jobads-sync",
	Short: "Job ad feed synchronizer",
	Long: `jobads-sync keeps a local table of job ads in step with the JobTech
job stream. Run bootstrap once, then update (or serve --sync) to poll
for changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable timestamps on a terminal
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding the .env file")
}
