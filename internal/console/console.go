// Package console handles the small amount of terminal interaction envsel
// needs: picking an application or profile from a numbered list, and
// printing dim hints that only make sense to a human.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by Select when there is no terminal to ask.
var ErrNotInteractive = errors.New("not running in an interactive terminal")

// ErrAborted is returned when input ends before an option is chosen.
var ErrAborted = errors.New("selection aborted")

var hint = color.New(color.FgHiBlack).SprintFunc()

// Prompter asks the user to choose between options.
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool

	// reader is shared across prompts so buffered input is not lost.
	reader *bufio.Reader
}

// NewPrompter reads from stdin and writes to stderr, so that prompts never
// end up in captured stdout. It is interactive only when both are terminals.
func NewPrompter() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: IsTerminal(os.Stdin) && IsTerminal(os.Stderr),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Select shows options as a numbered list and returns the chosen one.
// A single option is returned without asking. Invalid answers re-prompt
// until a valid number is read or input ends.
func (p *Prompter) Select(label string, options []string) (string, error) {
	switch len(options) {
	case 0:
		return "", fmt.Errorf("no %s to choose from", label)
	case 1:
		return options[0], nil
	}
	if !p.Interactive {
		return "", fmt.Errorf("%s not given: %w", label, ErrNotInteractive)
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	for {
		fmt.Fprintf(p.Out, "Select %s:\n", label)
		for i, option := range options {
			fmt.Fprintf(p.Out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprintf(p.Out, "%s ", hint(fmt.Sprintf("[1-%d]>", len(options))))

		line, err := p.reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" {
			if choice, ok := pick(answer, options); ok {
				return choice, nil
			}
			fmt.Fprintf(p.Out, "Invalid choice %q\n", answer)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(p.Out)
				return "", ErrAborted
			}
			return "", fmt.Errorf("reading selection: %w", err)
		}
	}
}

// pick accepts either the option's number or its exact text.
func pick(answer string, options []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(options) {
			return "", false
		}
		return options[n-1], true
	}
	for _, option := range options {
		if option == answer {
			return option, true
		}
	}
	return "", false
}

// Hint writes a dimmed line to w when w is a terminal. Hints are for people;
// scripts reading the stream never see them.
func Hint(w io.Writer, format string, args ...any) {
	f, ok := w.(*os.File)
	if !ok || !IsTerminal(f) {
		return
	}
	fmt.Fprintln(w, hint(fmt.Sprintf(format, args...)))
}

// DisableColor turns off colored output for the rest of the process.
func DisableColor() {
	color.NoColor = true
}
