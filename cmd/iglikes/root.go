package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"iglikes/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
)

// rootCmd scrapes when given an account, so `iglikes alice` works like
// `iglikes scrape alice`.
var rootCmd = &cobra.Command{
	Use:   "iglikes [account]",
	Short: "Find out who likes an Instagram account's posts",
	Long: `iglikes logs into Instagram, downloads the likers of every post of an
account, keeps one text record per post and turns the records into a
ranked liker summary, a post summary and a top ten leaderboard.

Reports are written to <output_dir>/<account>/Statistics as CSV, and as PDF
when pdf_enabled is set in the config file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColor()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runScrape(cmd, args, &rootScrapeOpts)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	addScrapeFlags(rootCmd, &rootScrapeOpts)

	rootCmd.SetVersionTemplate(`iglikes {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
