package report

import (
	"fmt"
	"io"

	"iglikes/pkg/tally"
	"iglikes/pkg/ui"
)

// TopN is the leaderboard length printed after a run.
const TopN = 10

const rule = "-------------------------------------------------"

// PrintLeaderboard prints the completion banner, the liker summary path and
// the top likers in ranking order.
func PrintLeaderboard(w io.Writer, statsPath string, top []tally.Entry) {
	if len(top) > TopN {
		top = top[:TopN]
	}

	fmt.Fprintf(w, "\n%s\n", ui.Green("🎉 Completed Run 🎉"))
	fmt.Fprintf(w, "Statistics file created: %s\n", ui.Cyan(statsPath))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "|"+ui.Bold("               YOUR TOP TEN LIKERS             ")+"|")
	fmt.Fprintln(w, rule)
	for i, e := range top {
		fmt.Fprintf(w, "%d. %s - %d likes\n", i+1, ui.Magenta(e.Username), e.Likes)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "🖖 Thank you and have a blessed day")
	fmt.Fprintf(w, "%s\n\n", rule)
}
