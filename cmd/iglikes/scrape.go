package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"iglikes/pkg/auth"
	"iglikes/pkg/config"
	"iglikes/pkg/errors"
	"iglikes/pkg/instagram"
	"iglikes/pkg/logger"
	"iglikes/pkg/ratelimit"
	"iglikes/pkg/report"
	"iglikes/pkg/scraper"
	"iglikes/pkg/storage"
	"iglikes/pkg/ui"
)

// scrapeOptions holds the scrape flags; root and scrape each get a copy
type scrapeOptions struct {
	overwrite bool
	limit     int
	sleep     int
	pdf       bool
	output    string
	yes       bool
	verbose   bool
}

var (
	scrapeOpts     scrapeOptions
	rootScrapeOpts scrapeOptions
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [account]",
	Short: "Scrape an account's likers and write the reports",
	Long: `Log in, download the likers of each post of an account and write the
liker and post summaries.

Every question the run needs (credentials, account, overwrite, post limit and
pause) is asked interactively unless answered by a flag. If the account
already has an output folder and --overwrite is not set, nothing is scraped.`,
	Example: `  # Fully interactive
  iglikes scrape

  # Latest 20 posts, 5 seconds between posts, reuse the saved login
  iglikes scrape alice --limit 20 --sleep 5 --overwrite --yes

  # Also write PDF copies of the reports
  iglikes scrape alice --pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd, args, &scrapeOpts)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd, &scrapeOpts)
}

func addScrapeFlags(cmd *cobra.Command, opts *scrapeOptions) {
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "scrape even when the account already has an output folder")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of posts to scrape (0 for no limit)")
	cmd.Flags().IntVar(&opts.sleep, "sleep", 10, "seconds to pause between posts")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "also write PDF copies of the reports")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "reuse stored credentials and accept configured defaults without asking")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print one line per post instead of a progress bar")
}

// scrapeFlags collects the flags the user actually set
func scrapeFlags(cmd *cobra.Command, opts *scrapeOptions) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("overwrite") {
		flags["overwrite"] = opts.overwrite
	}
	if cmd.Flags().Changed("limit") {
		flags["limit"] = opts.limit
	}
	if cmd.Flags().Changed("sleep") {
		flags["sleep"] = opts.sleep
	}
	if cmd.Flags().Changed("pdf") {
		flags["pdf"] = opts.pdf
	}
	if opts.output != "" {
		flags["output"] = opts.output
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string, opts *scrapeOptions) error {
	a, err := loadApp(cmd, scrapeFlags(cmd, opts))
	if err != nil {
		return err
	}
	cfg, log := a.cfg, a.log

	ui.PrintBanner()
	prompter := ui.NewPrompter(os.Stdin, ui.Output)

	var secure passwordSource
	if manager, err := auth.NewManager(); err != nil {
		log.WithError(err).Debug("Secure credential store unavailable")
	} else {
		secure = manager
	}

	username, password, err := resolveCredentials(prompter, cfg, a.configPath, secure, opts.yes)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := instagram.NewClient(cfg.Timeout(), cfg.UserAgent, log)
	client.SetLimiter(requestLimiter(cfg))

	if err := client.Login(ctx, username, password); err != nil {
		log.WithError(err).Error("Login failed")
		if errors.IsAuth(err) {
			return fmt.Errorf("login failed: %w", err)
		}
		return err
	}
	log.Info("🎉 Logged in successfully! Let's get started, you social media butterfly! 🦋")

	account := ""
	if len(args) > 0 {
		account = args[0]
	}
	if err := askRunOptions(cmd, prompter, cfg, &account, opts.yes); err != nil {
		return err
	}
	ui.PrintInfo("Target Profile", account)

	if keepExisting(cfg, account, log) {
		return nil
	}

	s := scraper.New(client, cfg, log, ui.Output)
	s.SetVerbose(opts.verbose)

	result, err := s.Run(ctx, account)
	if err != nil {
		log.WithError(err).Error("Scrape failed")
		return err
	}

	report.PrintLeaderboard(ui.Output, result.StatisticsPath(), result.Tally.Top(report.TopN))
	if result.PostReport.CSV != "" {
		ui.PrintInfo("Post statistics", result.PostReport.CSV)
	}

	log.InfoWithFields("Run complete", map[string]interface{}{
		"last_run": result.Summary.RunDate.Format(report.RunDateLayout),
		"posts":    result.Summary.Posts,
		"saved":    result.Saved,
		"failed":   len(result.Failed),
	})
	return nil
}

// keepExisting reports whether the run must stop because the account
// already has an output folder and overwriting is off.
func keepExisting(cfg *config.Config, account string, log logger.Logger) bool {
	if cfg.Overwrite || !storage.AccountExists(cfg.OutputDir, account) {
		return false
	}
	log.Info("📁 Using existing folder. Files will not be overwritten.")
	ui.PrintWarning("Using existing folder. Files will not be overwritten.")
	return true
}

// askRunOptions prompts for whatever the command line left open. With
// assumeYes the configured values are taken as they are.
func askRunOptions(cmd *cobra.Command, p *ui.Prompter, cfg *config.Config, account *string, assumeYes bool) error {
	var err error

	if *account == "" {
		*account, err = p.AskRequired("Enter the Instagram account you'd like to scrape: 📸")
		if err != nil {
			return err
		}
	}
	*account = instagram.SanitizeUsername(*account)
	if !instagram.IsValidUsername(*account) {
		return fmt.Errorf("invalid Instagram username %q", *account)
	}

	if assumeYes {
		return nil
	}

	if !cmd.Flags().Changed("overwrite") {
		if cfg.Overwrite, err = p.AskYesNo("Overwrite existing files? 🔄"); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("limit") {
		if cfg.PostLimit, err = p.AskInt("Enter the limit on the number of posts to scrape (0 for no limit): 🔢", cfg.PostLimit); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("sleep") {
		question := fmt.Sprintf("Enter the sleep interval between requests in seconds (default: %d): ⏱️", cfg.SleepInterval)
		if cfg.SleepInterval, err = p.AskInt(question, cfg.SleepInterval); err != nil {
			return err
		}
	}
	return nil
}

// requestLimiter smooths requests per minute and caps them per hour.
func requestLimiter(cfg *config.Config) ratelimit.Limiter {
	return ratelimit.Chain{
		ratelimit.NewTokenBucket(cfg.RequestsPerMinute, time.Minute, cfg.RequestBurst),
		ratelimit.NewSlidingWindow(cfg.RequestsPerHour, time.Hour),
	}
}
