package scraper

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"iglikes/pkg/config"
	"iglikes/pkg/instagram"
	"iglikes/pkg/logger"
	"iglikes/pkg/ratelimit"
	"iglikes/pkg/records"
	"iglikes/pkg/report"
	"iglikes/pkg/storage"
	"iglikes/pkg/tally"
	"iglikes/pkg/ui"
)

// Scraper runs one scrape-and-report cycle per account
type Scraper struct {
	platform Platform
	config   *config.Config
	logger   logger.Logger
	pacer    ratelimit.Limiter
	out      io.Writer
	verbose  bool
	now      func() time.Time
}

// FailedPost is a post whose likers could not be fetched or written
type FailedPost struct {
	Code string
	Err  error
}

// Result describes a finished run
type Result struct {
	Account string
	Summary report.Summary
	Posts   []report.Post
	Saved   int
	Failed  []FailedPost
	Tally   *tally.Tally

	LikerReport report.Paths
	PostReport  report.Paths
}

// StatisticsPath returns the liker summary CSV, the file the console
// leaderboard points at.
func (r *Result) StatisticsPath() string {
	return r.LikerReport.CSV
}

// New creates a Scraper. Progress is written to out; the pause between
// posts is cfg.Sleep().
func New(platform Platform, cfg *config.Config, log logger.Logger, out io.Writer) *Scraper {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if out == nil {
		out = io.Discard
	}
	return &Scraper{
		platform: platform,
		config:   cfg,
		logger:   log,
		pacer:    ratelimit.NewInterval(cfg.Sleep()),
		out:      out,
		now:      time.Now,
	}
}

// SetVerbose switches the progress display to one line per post
func (s *Scraper) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// SetPacer replaces the between-posts pause
func (s *Scraper) SetPacer(p ratelimit.Limiter) {
	s.pacer = p
}

// SetClock overrides the run timestamp source
func (s *Scraper) SetClock(now func() time.Time) {
	s.now = now
}

// Run scrapes account's posts newest first, writes one record per post,
// re-aggregates every record on disk and emits both reports. A post that
// fails is logged and skipped; cancelling ctx stops the loop and returns
// ctx's error.
func (s *Scraper) Run(ctx context.Context, account string) (*Result, error) {
	log := s.logger.WithField("account", account)
	runDate := s.now()

	logger.LogComponentStart(log, "scraper", map[string]interface{}{
		"output_dir": s.config.OutputDir,
		"limit":      s.config.PostLimit,
		"sleep":      s.config.Sleep().String(),
		"pdf":        s.config.PDFEnabled,
	})

	store, err := storage.NewManager(s.config.OutputDir, account)
	if err != nil {
		return nil, err
	}

	userID, err := s.platform.ResolveUserID(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", account, err)
	}

	posts, err := s.platform.ListUserPosts(ctx, userID, s.config.PostLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of %s: %w", account, err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].TakenAt > posts[j].TakenAt
	})

	log.InfoWithFields("Fetched post list", map[string]interface{}{
		"user_id": userID,
		"posts":   len(posts),
	})

	result := &Result{Account: account}
	summary := report.Summary{
		Account: account,
		RunDate: runDate,
		Posts:   len(posts),
	}
	unique := make(map[string]struct{})

	progress := ui.NewProgressDisplay(s.out, account, len(posts), s.verbose)
	for i := range posts {
		post := &posts[i]
		summary.TotalLikes += post.LikeCount
		summary.TotalComments += post.CommentCount
		result.Posts = append(result.Posts, reportPost(post))

		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		progress.StartPost(post.Code)

		likers, err := s.scrapePost(ctx, store, post)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.WithError(err).WarnWithFields("Failed to download post", map[string]interface{}{
				"code": post.Code,
			})
			progress.FailPost(post.Code, err)
			result.Failed = append(result.Failed, FailedPost{Code: post.Code, Err: err})
			continue
		}

		for _, name := range likers {
			unique[name] = struct{}{}
		}
		result.Saved++
		progress.CompletePost(post.Code, len(likers))
		logger.LogScrapeProgress(log, account, i+1, len(posts))
	}
	progress.Complete()
	summary.UniqueLikers = len(unique)

	t, err := tally.Directory(store.PostsDir(), account, log)
	if err != nil {
		return nil, err
	}
	result.Tally = t

	writer := report.NewWriter(store, s.config.PDFEnabled, log)

	likerSummary := summary
	likerSummary.DateRange = tally.FormatRange(t.PostDates)
	if result.LikerReport, err = writer.WriteLikerSummary(likerSummary, t.Ranked()); err != nil {
		return nil, fmt.Errorf("failed to write liker summary: %w", err)
	}

	summary.DateRange = report.PostDateRange(result.Posts)
	if result.PostReport, err = writer.WritePostSummary(summary, result.Posts); err != nil {
		return nil, fmt.Errorf("failed to write post summary: %w", err)
	}
	result.Summary = summary

	log.InfoWithFields("Scrape finished", map[string]interface{}{
		"saved":   result.Saved,
		"failed":  len(result.Failed),
		"likers":  summary.UniqueLikers,
		"skipped": len(t.Skipped),
	})

	return result, nil
}

// scrapePost fetches the likers of post once and writes its record.
// It returns the liker usernames.
func (s *Scraper) scrapePost(ctx context.Context, store *storage.Manager, post *instagram.Post) ([]string, error) {
	likers, err := s.platform.ListLikers(ctx, post.MediaID())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(likers))
	for _, l := range likers {
		if l.Username != "" {
			names = append(names, l.Username)
		}
	}

	taken := post.TakenAtTime()
	rec := &records.PostRecord{
		URL:       instagram.GetPostURL(post.Code),
		Caption:   post.CaptionText(),
		PostDate:  time.Date(taken.Year(), taken.Month(), taken.Day(), 0, 0, 0, 0, time.UTC),
		MediaType: records.MediaTypeName(post.MediaType),
		Likes:     post.LikeCount,
		Comments:  post.CommentCount,
		Likers:    names,
	}

	path, err := store.SaveRecord(rec)
	if err != nil {
		return nil, err
	}
	s.logger.DebugWithFields("Record written", map[string]interface{}{
		"code":   post.Code,
		"path":   path,
		"likers": len(names),
	})
	return names, nil
}

func reportPost(p *instagram.Post) report.Post {
	return report.Post{
		TakenAt:   p.TakenAtTime(),
		Caption:   p.CaptionText(),
		MediaType: p.MediaType,
		Likes:     p.LikeCount,
		Comments:  p.CommentCount,
		Code:      p.Code,
	}
}

// Summarize re-aggregates the records already on disk for account and
// writes the liker summary without contacting the platform. The header
// figures come from the records themselves.
func Summarize(cfg *config.Config, account string, log logger.Logger, now time.Time) (*Result, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if !storage.AccountExists(cfg.OutputDir, account) {
		return nil, fmt.Errorf("no output for %s in %s", account, cfg.OutputDir)
	}

	store, err := storage.NewManager(cfg.OutputDir, account)
	if err != nil {
		return nil, err
	}

	t, err := tally.Directory(store.PostsDir(), account, log)
	if err != nil {
		return nil, err
	}

	summary := report.Summary{
		Account:       account,
		RunDate:       now,
		Posts:         t.Records,
		TotalLikes:    t.TotalLikes,
		TotalComments: t.TotalComments,
		UniqueLikers:  t.Likes.Len(),
		DateRange:     tally.FormatRange(t.PostDates),
	}

	paths, err := report.NewWriter(store, cfg.PDFEnabled, log).WriteLikerSummary(summary, t.Ranked())
	if err != nil {
		return nil, fmt.Errorf("failed to write liker summary: %w", err)
	}

	return &Result{
		Account:     account,
		Summary:     summary,
		Saved:       t.Records,
		Tally:       t,
		LikerReport: paths,
	}, nil
}
