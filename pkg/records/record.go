// Package records defines the per-post text record the scraper writes and
// the aggregator reads back.
//
// A record is a fixed header followed by the liker list:
//
//	Post URL: https://www.instagram.com/p/<code>/
//	Caption: <caption>
//	Post Date: <YYYY-MM-DD>
//	Post type: <Photo|Video>
//	Likes: <n>
//	Comments: <n>
//
//	Likers:
//	<username>
//	...
//
// The post date is always on the third line and the literal "Likers:" line
// separates the header from the usernames.
package records

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	igerrors "iglikes/pkg/errors"
)

// DateLayout is the on-disk post date format.
const DateLayout = "2006-01-02"

// LikersMarker separates header fields from the liker list.
const LikersMarker = "Likers:"

const (
	prefixURL      = "Post URL: "
	prefixCaption  = "Caption: "
	prefixDate     = "Post Date: "
	prefixType     = "Post type: "
	prefixLikes    = "Likes: "
	prefixComments = "Comments: "

	dateLineIndex = 2
)

// Media type names written to records and reports.
const (
	MediaPhoto = "Photo"
	MediaVideo = "Video"
)

// MediaTypeName maps the platform media type code to its display name.
// Code 2 is a video; every other code is reported as a photo.
func MediaTypeName(code int) string {
	if code == 2 {
		return MediaVideo
	}
	return MediaPhoto
}

// PostRecord is one scraped post.
type PostRecord struct {
	URL       string
	Caption   string
	PostDate  time.Time
	MediaType string
	Likes     int
	Comments  int
	Likers    []string
}

// Date returns the post date in DateLayout.
func (r *PostRecord) Date() string {
	return r.PostDate.Format(DateLayout)
}

// flatten keeps multi-line captions on a single record line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

// WriteTo writes r in record format.
func (r *PostRecord) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	write := func(format string, args ...interface{}) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}

	lines := []struct {
		format string
		arg    interface{}
	}{
		{prefixURL + "%s\n", r.URL},
		{prefixCaption + "%s\n", flatten(r.Caption)},
		{prefixDate + "%s\n", r.Date()},
		{prefixType + "%s\n", r.MediaType},
		{prefixLikes + "%d\n", r.Likes},
		{prefixComments + "%d\n", r.Comments},
	}
	for _, l := range lines {
		if err := write(l.format, l.arg); err != nil {
			return n, err
		}
	}
	if err := write("\n%s\n", LikersMarker); err != nil {
		return n, err
	}
	for _, liker := range r.Likers {
		if err := write("%s\n", liker); err != nil {
			return n, err
		}
	}

	return n, bw.Flush()
}

// Parse reads a record. The post date is required: a missing or invalid
// third line returns a parsing error. Other header fields are read when
// present. A record without the likers marker has no likers; blank liker
// lines are ignored.
func Parse(r io.Reader) (*PostRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	rec := &PostRecord{}
	inLikers := false
	dateSeen := false

	for i := 0; scanner.Scan(); i++ {
		line := strings.TrimRight(scanner.Text(), "\r")

		if inLikers {
			if name := strings.TrimSpace(line); name != "" {
				rec.Likers = append(rec.Likers, name)
			}
			continue
		}

		if i == dateLineIndex {
			date, err := parseDateLine(line)
			if err != nil {
				return nil, err
			}
			rec.PostDate = date
			dateSeen = true
			continue
		}

		switch {
		case strings.TrimSpace(line) == LikersMarker:
			inLikers = true
		case strings.HasPrefix(line, prefixURL):
			rec.URL = strings.TrimPrefix(line, prefixURL)
		case strings.HasPrefix(line, prefixCaption):
			rec.Caption = strings.TrimPrefix(line, prefixCaption)
		case strings.HasPrefix(line, prefixType):
			rec.MediaType = strings.TrimPrefix(line, prefixType)
		case strings.HasPrefix(line, prefixLikes):
			rec.Likes, _ = strconv.Atoi(strings.TrimPrefix(line, prefixLikes))
		case strings.HasPrefix(line, prefixComments):
			rec.Comments, _ = strconv.Atoi(strings.TrimPrefix(line, prefixComments))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, igerrors.Wrap(igerrors.ErrorTypeIO, err, "failed to read record")
	}
	if !dateSeen {
		return nil, igerrors.New(igerrors.ErrorTypeParsing, 0, "record has no post date line")
	}

	return rec, nil
}

func parseDateLine(line string) (time.Time, error) {
	if !strings.HasPrefix(line, prefixDate) {
		return time.Time{}, igerrors.New(igerrors.ErrorTypeParsing, 0,
			fmt.Sprintf("third line is not a post date: %q", line))
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(strings.TrimPrefix(line, prefixDate)))
	if err != nil {
		return time.Time{}, igerrors.Wrap(igerrors.ErrorTypeParsing, err, "invalid post date")
	}
	return date, nil
}

// FileName returns the record file name for the seq-th post of account on
// date within a run. The first post of a day has no sequence suffix.
func FileName(account string, date time.Time, seq int) string {
	if seq <= 1 {
		return fmt.Sprintf("%s_%s.txt", account, date.Format(DateLayout))
	}
	return fmt.Sprintf("%s_%s_%d.txt", account, date.Format(DateLayout), seq)
}

// FileMatcher returns a predicate accepting record file names of account.
func FileMatcher(account string) func(name string) bool {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(account) + `_\d{4}-\d{2}-\d{2}(_\d+)?\.txt$`)
	return re.MatchString
}
