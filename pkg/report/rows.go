// Package report turns a tally and the scraped posts into the liker and
// post summaries, written as CSV, optionally transcribed to PDF, and
// printed as a console leaderboard.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"iglikes/pkg/instagram"
	"iglikes/pkg/records"
	"iglikes/pkg/tally"
)

// RunDateLayout formats the run timestamp inside reports.
const RunDateLayout = "2006-01-02 15:04:05"

// CaptionLimit is the longest caption, in characters, kept verbatim in the
// post summary. Longer captions are cut to CaptionLimit-3 plus "...".
const CaptionLimit = 100

// Summary holds the header figures shared by both reports.
type Summary struct {
	Account       string
	RunDate       time.Time
	Posts         int
	TotalLikes    int
	TotalComments int
	UniqueLikers  int
	DateRange     string
}

// Post is one row of the post summary.
type Post struct {
	TakenAt   time.Time
	Caption   string
	MediaType int
	Likes     int
	Comments  int
	Code      string
}

// TruncateCaption shortens captions over CaptionLimit characters.
func TruncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= CaptionLimit {
		return caption
	}
	return string(runes[:CaptionLimit-3]) + "..."
}

// PostDateRange returns "<oldest> to <newest>" over posts, or an empty
// string when there are none.
func PostDateRange(posts []Post) string {
	var r tally.DateRange
	for _, p := range posts {
		r.Fold(postDay(p.TakenAt))
	}
	return tally.FormatRange(r)
}

func postDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// LikerRows builds the liker summary: header figures, a column header and
// one row per ranked liker.
func LikerRows(s Summary, ranked []tally.Entry) [][]string {
	rows := [][]string{
		{"Account Name", s.Account},
		{"Run Date", s.RunDate.Format(RunDateLayout)},
		{"Number of Posts Analyzed", itoa(s.Posts)},
		{"Total Likes", itoa(s.TotalLikes)},
		{"Total Comments", itoa(s.TotalComments)},
		{"Total Unique Likers", itoa(s.UniqueLikers)},
		{"Date Range of Posts", s.DateRange},
		{"Username", "Total Likes", "First Seen", "Last Seen", "Placement"},
	}
	for _, e := range ranked {
		rows = append(rows, []string{
			e.Username,
			itoa(e.Likes),
			tally.FormatDate(e.FirstSeen),
			tally.FormatDate(e.LastSeen),
			itoa(e.Placement),
		})
	}
	return rows
}

// normalizeNewlines turns CRLF and lone CR into LF so captions survive
// the CSV round trip.
func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}

// PostRows builds the post summary. posts are written in the order given.
func PostRows(s Summary, posts []Post) [][]string {
	rows := [][]string{
		{"Username", s.Account},
		{"Run Date", s.RunDate.Format(RunDateLayout)},
		{"Number of Posts Analyzed", itoa(s.Posts)},
		{"Total Likes", itoa(s.TotalLikes)},
		{"Total Comments", itoa(s.TotalComments)},
		{"Total Unique Likers", itoa(s.UniqueLikers)},
		{"Date Range of Posts", s.DateRange},
		{"Date", "Caption", "Media Type", "Likes Count", "Comments Count", "Post URL"},
	}
	for _, p := range posts {
		rows = append(rows, []string{
			p.TakenAt.Format(records.DateLayout),
			TruncateCaption(normalizeNewlines(p.Caption)),
			records.MediaTypeName(p.MediaType),
			itoa(p.Likes),
			itoa(p.Comments),
			instagram.GetPostURL(p.Code),
		})
	}
	return rows
}

// LikerSummaryName is the liker summary CSV file name for a run at now.
func LikerSummaryName(account string, now time.Time) string {
	return fmt.Sprintf("%s_Statistics_%s.csv", account, now.Format("2006-01-02-15-04-05"))
}

// PostSummaryName is the post summary CSV file name for a run at now.
func PostSummaryName(account string, now time.Time) string {
	return fmt.Sprintf("%s_postStatistics_%s.csv", account, now.Format("2006-01-02"))
}

// LikerPDFName is the liker summary PDF file name. It has no timestamp, so
// each run replaces the previous one.
func LikerPDFName(account string) string {
	return account + "_Statistics.pdf"
}

// PostPDFName is the post summary PDF file name.
func PostPDFName(account string) string {
	return account + "_postStatistics.pdf"
}
