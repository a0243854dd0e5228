package main

import (
	"time"

	"github.com/spf13/cobra"

	"iglikes/pkg/instagram"
	"iglikes/pkg/report"
	"iglikes/pkg/scraper"
	"iglikes/pkg/ui"
)

var tallyPDF bool

// tallyCmd re-aggregates records already on disk
var tallyCmd = &cobra.Command{
	Use:   "tally <account>",
	Short: "Rebuild the liker summary from existing records",
	Long: `Read every post record under <output_dir>/<account>/Posts and write a
fresh liker summary and leaderboard. Instagram is not contacted.`,
	Args: cobra.ExactArgs(1),
	RunE: runTally,
}

func init() {
	rootCmd.AddCommand(tallyCmd)
	tallyCmd.Flags().BoolVar(&tallyPDF, "pdf", false, "also write a PDF copy of the summary")
}

func runTally(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("pdf") {
		flags["pdf"] = tallyPDF
	}

	a, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}

	account := instagram.SanitizeUsername(args[0])
	result, err := scraper.Summarize(a.cfg, account, a.log, time.Now())
	if err != nil {
		a.log.WithError(err).WithField("account", account).Error("Tally failed")
		return err
	}

	if n := len(result.Tally.Skipped); n > 0 {
		ui.PrintWarning("Skipped malformed records", n)
	}
	report.PrintLeaderboard(ui.Output, result.StatisticsPath(), result.Tally.Top(report.TopN))
	return nil
}
