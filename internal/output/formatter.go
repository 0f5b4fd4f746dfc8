// Package output renders scan results for editors, CI systems and tools.
package output

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/results"
)

// Report is everything a formatter renders
type Report struct {
	ScanID  string
	Results []results.ScanResult
}

// Formatter defines output formatting interface
type Formatter interface {
	Format(report *Report, w io.Writer) error
}

// NewFormatter creates the formatter for a configured format name. Colour
// is used by the xcode format only, and only when w is a terminal.
func NewFormatter(format string, w io.Writer) Formatter {
	switch format {
	case config.FormatJSON:
		return &JSONFormatter{}
	case config.FormatCSV:
		return &CSVFormatter{}
	case config.FormatGitHubActions:
		return &GitHubActionsFormatter{}
	default:
		return &XcodeFormatter{Color: ShouldColor(w)}
	}
}

// ShouldColor reports whether w is an interactive terminal. NO_COLOR
// disables colour regardless.
func ShouldColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
