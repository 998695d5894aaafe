// Package interactive provides interactive prompts for choosing and
// confirming downloads.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/adamancini/ffupdate/internal/types"
	"github.com/adamancini/ffupdate/internal/update"
)

// Response represents the user's response to a prompt.
type Response int

const (
	ResponseYes  Response = iota // Proceed with this download
	ResponseNo                   // Skip this download
	ResponseAll                  // Approve all remaining downloads
	ResponseQuit                 // Abort interactive mode
)

// Prompter handles interactive prompts.
type Prompter struct {
	out        io.Writer
	scanner    *bufio.Scanner
	approveAll bool
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return IsTerminalFile(os.Stdin)
}

// IsTerminalFile checks if f is a terminal.
func IsTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// prompt displays a question and reads the response.
func (p *Prompter) prompt(format string, args ...interface{}) Response {
	if p.approveAll {
		return ResponseYes
	}

	_, _ = fmt.Fprintf(p.out, format, args...)
	_, _ = fmt.Fprint(p.out, " [y/n/a/q] ")

	if !p.scanner.Scan() {
		return ResponseQuit
	}

	switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
	case "y", "yes":
		return ResponseYes
	case "n", "no":
		return ResponseNo
	case "a", "all":
		p.approveAll = true
		return ResponseYes
	case "q", "quit":
		return ResponseQuit
	default:
		_, _ = fmt.Fprintln(p.out, "Invalid response, skipping.")
		return ResponseNo
	}
}

// Confirm asks a yes/no question. Anything but yes is no.
func (p *Prompter) Confirm(format string, args ...interface{}) bool {
	_, _ = fmt.Fprintf(p.out, format, args...)
	_, _ = fmt.Fprint(p.out, " [y/n] ")
	if !p.scanner.Scan() {
		return false
	}
	input := strings.ToLower(strings.TrimSpace(p.scanner.Text()))
	return input == "y" || input == "yes"
}

// Choose lists options and reads a 1-based choice. An empty answer picks
// options[def] when def is a valid index. Returns false when the input is
// invalid or exhausted.
func (p *Prompter) Choose(title string, options []string, def int) (int, bool) {
	if len(options) == 0 {
		_, _ = fmt.Fprintln(p.out, "Nothing to choose from.")
		return -1, false
	}

	_, _ = fmt.Fprintf(p.out, "%s\n", title)
	for i, option := range options {
		_, _ = fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}
	_, _ = fmt.Fprintf(p.out, "Select [1-%d]: ", len(options))

	if !p.scanner.Scan() {
		return -1, false
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" && def >= 0 && def < len(options) {
		return def, true
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		_, _ = fmt.Fprintln(p.out, "Invalid selection.")
		return -1, false
	}
	return n - 1, true
}

// SelectVariant lists variants by title and reads a 1-based choice.
// Returns false when the input is empty, invalid or exhausted.
func (p *Prompter) SelectVariant(title string, variants []types.Variant) (types.Variant, bool) {
	options := make([]string, 0, len(variants))
	for _, v := range variants {
		options = append(options, fmt.Sprintf("%s (%s)", v.Info().Title, v))
	}
	i, ok := p.Choose(title, options, -1)
	if !ok {
		return "", false
	}
	return variants[i], true
}

// SelectOutdated prompts for each outdated app and returns the approved
// variants, or false if the user quit.
func (p *Prompter) SelectOutdated(statuses []update.AppStatus) ([]types.Variant, bool) {
	var selected []types.Variant
	skipped := 0

	for _, s := range statuses {
		if !s.Outdated {
			continue
		}
		_, _ = fmt.Fprintf(p.out, "  ~ %s %s -> %s\n", s.Variant, s.Installed, s.Available)

		switch p.prompt("    -> Download %s %s?", s.Title, s.Available) {
		case ResponseYes:
			selected = append(selected, s.Variant)
		case ResponseQuit:
			_, _ = fmt.Fprintln(p.out, "\nAborted.")
			return nil, false
		default:
			_, _ = fmt.Fprintln(p.out, "    - Skipped")
			skipped++
		}
	}

	_, _ = fmt.Fprintln(p.out, "\nSummary:")
	_, _ = fmt.Fprintf(p.out, "  Will download: %d\n", len(selected))
	if skipped > 0 {
		_, _ = fmt.Fprintf(p.out, "  Skipped: %d\n", skipped)
	}

	return selected, true
}
