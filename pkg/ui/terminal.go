// Package ui holds the terminal pieces of the CLI: colored output,
// interactive prompts and the per-post progress line.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Banner is printed at the start of an interactive run
const Banner = `
  ┌───────────────────────────────────────────────┐
  │  iglikes  ·  who likes your posts, and when   │
  └───────────────────────────────────────────────┘
`

// Color functions for terminal output
var (
	Cyan    = paint(color.FgCyan)
	Yellow  = paint(color.FgYellow)
	Red     = paint(color.FgRed)
	Green   = paint(color.FgGreen)
	Magenta = paint(color.FgMagenta)
	Bold    = paint(color.Bold)
	Dim     = paint(color.Faint)
)

// paint returns a function that wraps text in the given attribute. It
// honours color.NoColor, which is set for non-terminals and --no-color.
func paint(attr color.Attribute) func(string) string {
	c := color.New(attr)
	return func(text string) string {
		return c.Sprint(text)
	}
}

// DisableColor turns off every color function.
func DisableColor() {
	color.NoColor = true
}

// Output is where the Print helpers write.
var Output io.Writer = color.Output

// PrintBanner prints the banner in cyan
func PrintBanner() {
	fmt.Fprint(Output, Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Output, Magenta(msg))
}
