package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter asks questions on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd of the input when it is a terminal, -1 otherwise
	fd int
}

// NewPrompter reads answers from in and writes questions to out. Password
// input is hidden when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskString asks question and returns the trimmed answer, or def when the
// answer is empty.
func (p *Prompter) AskString(question, def string) (string, error) {
	fmt.Fprintf(p.out, "%s ", Cyan(question))
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired repeats question until a non-empty answer is given.
func (p *Prompter) AskRequired(question string) (string, error) {
	for {
		answer, err := p.AskString(question, "")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// AskYesNo returns true only for an answer of "y" or "yes".
func (p *Prompter) AskYesNo(question string) (bool, error) {
	answer, err := p.AskString(question+" (y/n):", "n")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AskInt asks for a non-negative integer, returning def on empty input and
// re-asking on anything unparseable.
func (p *Prompter) AskInt(question string, def int) (int, error) {
	for {
		answer, err := p.AskString(question, strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, Red("Please enter a whole number of zero or more."))
	}
}

// AskPassword asks for a secret without echoing it when possible.
func (p *Prompter) AskPassword(question string) (string, error) {
	fmt.Fprintf(p.out, "%s ", Cyan(question))
	if p.fd < 0 {
		return p.readLine()
	}
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}
