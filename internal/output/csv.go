package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVFormatter writes one row per result under a header row
type CSVFormatter struct{}

var csvHeader = []string{"kind", "name", "module", "annotation", "location", "message", "ids"}

func (f *CSVFormatter) Format(report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range report.Results {
		row := []string{
			string(r.DeclarationKind),
			r.Name,
			r.Module,
			string(r.Annotation),
			r.Location.String(),
			r.Message(),
			strings.Join(r.USRs, "|"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
