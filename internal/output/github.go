package output

import (
	"fmt"
	"io"
	"strings"
)

// GitHubActionsFormatter writes workflow commands that annotate pull
// request diffs.
type GitHubActionsFormatter struct{}

func (f *GitHubActionsFormatter) Format(report *Report, w io.Writer) error {
	for _, r := range report.Results {
		_, err := fmt.Fprintf(w, "::warning file=%s,line=%d,col=%d,title=Periphery::%s\n",
			escapeProperty(r.Location.File), r.Location.Line, r.Location.Column, escapeData(r.Message()))
		if err != nil {
			return err
		}
	}
	return nil
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

var propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")

func escapeData(s string) string { return dataEscaper.Replace(s) }

func escapeProperty(s string) string { return propertyEscaper.Replace(s) }
