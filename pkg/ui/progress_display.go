package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay renders a single updating "Downloading posts" line. In
// verbose mode each post gets its own line instead.
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	account   string
	total     int
	done      int
	failed    int
	likers    int
	current   string
	startTime time.Time
	verbose   bool
}

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(out io.Writer, account string, total int, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		account:   account,
		total:     total,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// StartPost marks the start of a post download
func (p *ProgressDisplay) StartPost(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = code
	if !p.verbose {
		p.printProgress()
	}
}

// CompletePost marks a post as written
func (p *ProgressDisplay) CompletePost(code string, likers int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.likers += likers
	p.current = ""

	if p.verbose {
		fmt.Fprintf(p.out, "%s %s • %s\n", Green("✓"), code, Dim(fmt.Sprintf("%d likers", likers)))
		return
	}
	p.printProgress()
}

// FailPost marks a post as failed
func (p *ProgressDisplay) FailPost(code string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	p.current = ""

	if p.verbose {
		fmt.Fprintf(p.out, "%s %s - %v\n", Red("✗"), code, err)
		return
	}
	p.printProgress()
}

// Bar returns the progress bar for the current counts.
func (p *ProgressDisplay) Bar(width int) string {
	processed := p.done + p.failed
	filled := 0
	if p.total > 0 {
		filled = processed * width / p.total
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func (p *ProgressDisplay) printProgress() {
	line := fmt.Sprintf("Downloading posts %s [%s] %d/%d • %s",
		Cyan(p.account),
		Magenta(p.Bar(20)),
		p.done+p.failed,
		p.total,
		formatDuration(time.Since(p.startTime)),
	)
	if p.current != "" {
		line += " • " + p.current
	}
	if p.failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d failed", p.failed))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 100), line)
}

// Complete ends the progress line and prints a short summary.
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verbose {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintf(p.out, "%s Saved %d posts from @%s (%d likes recorded) in %s\n",
		Green("✓"),
		p.done,
		p.account,
		p.likers,
		formatDuration(time.Since(p.startTime)),
	)
	if p.failed > 0 {
		fmt.Fprintf(p.out, "  %s %d posts failed\n", Dim("•"), p.failed)
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
