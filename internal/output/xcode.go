package output

import (
	"fmt"
	"io"
)

const (
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
	ansiReset  = "\033[0m"
)

// XcodeFormatter writes compiler style warnings that editors and Xcode
// pick up as diagnostics.
type XcodeFormatter struct {
	Color bool
}

func (f *XcodeFormatter) Format(report *Report, w io.Writer) error {
	for _, r := range report.Results {
		severity := "warning:"
		if f.Color {
			severity = ansiBold + ansiYellow + severity + ansiReset
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s\n", r.Location, severity, r.Message()); err != nil {
			return err
		}
	}
	return nil
}
