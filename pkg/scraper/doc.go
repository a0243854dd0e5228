// Package scraper orchestrates one scrape-and-report cycle.
//
// Run resolves the account, lists its posts newest first and, for each post,
// waits out the configured pause, fetches the likers once and writes a
// record under <output>/<account>/Posts. A post that fails is logged and
// skipped. Once the loop ends every record in the directory is tallied
// again and the liker and post summaries are written to Statistics.
//
//	s := scraper.New(client, cfg, log, os.Stdout)
//	result, err := s.Run(ctx, "alice")
//	if err != nil {
//	    return err
//	}
//	report.PrintLeaderboard(os.Stdout, result.StatisticsPath(), result.Tally.Top(report.TopN))
//
// Summarize does the aggregation half alone, for records already on disk.
package scraper
