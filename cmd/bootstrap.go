package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forceBootstrap bool

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the table, load all ads and set the first watermark",
	Long: `Creates the jobads table and loads the full snapshot of published ads.
When place or occupation filters are configured the snapshot is skipped and
the watermark starts at watermark.filtered_start; the next update then pulls
every matching change since then.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.lockWriter(); err != nil {
			return err
		}

		report, err := a.newSyncer().Bootstrap(cmd.Context(), forceBootstrap)
		if err != nil {
			return err
		}

		a.log.Info("Bootstrap complete",
			zap.Int("loaded", report.Counts.New),
			zap.Int64("rows", report.Rows),
			zap.String("watermark", report.Watermark),
			zap.Duration("took", report.Took),
		)
		return nil
	},
}

func init() {
	bootstrapCmd.Flags().BoolVar(&forceBootstrap, "force", false, "load even if the table already holds ads")
	RootCmd.AddCommand(bootstrapCmd)
}
