// Package tally aggregates post records into per-liker statistics.
package tally

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"iglikes/pkg/logger"
	"iglikes/pkg/records"
)

// SkippedFile is a record file that could not be parsed.
type SkippedFile struct {
	Name string
	Err  error
}

// Tally is the aggregate over a set of post records.
type Tally struct {
	Likes  *LikesCounter
	Ranges map[string]*DateRange

	// Record-derived totals
	Records       int
	TotalLikes    int
	TotalComments int
	PostDates     DateRange

	Skipped []SkippedFile
}

// New returns an empty Tally.
func New() *Tally {
	return &Tally{
		Likes:  NewLikesCounter(),
		Ranges: make(map[string]*DateRange),
	}
}

// Add folds one record into the tally.
func (t *Tally) Add(rec *records.PostRecord) {
	t.Records++
	t.TotalLikes += rec.Likes
	t.TotalComments += rec.Comments
	t.PostDates.Fold(rec.PostDate)

	for _, name := range rec.Likers {
		t.Likes.Add(name)
		r, ok := t.Ranges[name]
		if !ok {
			r = &DateRange{}
			t.Ranges[name] = r
		}
		r.Fold(rec.PostDate)
	}
}

// Range returns the date range of username.
func (t *Tally) Range(username string) DateRange {
	if r, ok := t.Ranges[username]; ok {
		return *r
	}
	return DateRange{}
}

// Ranked returns every liker ordered by descending like count, ties broken
// by first-seen order, with 1-based placements.
func (t *Tally) Ranked() []Entry {
	return rank(t.Likes, t.Ranges)
}

// Top returns at most n entries of Ranked.
func (t *Tally) Top(n int) []Entry {
	ranked := t.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Directory reads every record file of account in dir and aggregates them.
// Files are visited in lexical name order. Files that fail to parse are
// logged and listed in Skipped; they do not fail the tally.
func Directory(dir, account string, log logger.Logger) (*Tally, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read records directory: %w", err)
	}

	isRecord := records.FileMatcher(account)
	t := New()

	for _, entry := range entries {
		if entry.IsDir() || !isRecord(entry.Name()) {
			continue
		}

		rec, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.WithError(err).WarnWithFields("Skipping malformed record", map[string]interface{}{
				"file": entry.Name(),
			})
			t.Skipped = append(t.Skipped, SkippedFile{Name: entry.Name(), Err: err})
			continue
		}
		t.Add(rec)
	}

	log.DebugWithFields("Tallied records", map[string]interface{}{
		"records": t.Records,
		"likers":  t.Likes.Len(),
		"skipped": len(t.Skipped),
	})

	return t, nil
}

func readRecord(path string) (*records.PostRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return records.Parse(f)
}

// FormatRange renders a date range as "<from> to <to>", or an empty string
// when unset.
func FormatRange(r DateRange) string {
	if !r.IsSet() {
		return ""
	}
	return fmt.Sprintf("%s to %s", r.First.Format(records.DateLayout), r.Last.Format(records.DateLayout))
}

// FormatDate renders t as a post date, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(records.DateLayout)
}
