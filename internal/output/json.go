package output

import (
	"encoding/json"
	"io"

	"github.com/peripheryapp/periphery-sub003/internal/results"
)

// JSONFormatter writes one document holding every result
type JSONFormatter struct{}

type jsonResult struct {
	results.ScanResult
	Message string `json:"message"`
}

type jsonReport struct {
	ScanID  string       `json:"scan_id,omitempty"`
	Results []jsonResult `json:"results"`
}

func (f *JSONFormatter) Format(report *Report, w io.Writer) error {
	doc := jsonReport{ScanID: report.ScanID, Results: make([]jsonResult, 0, len(report.Results))}
	for _, r := range report.Results {
		doc.Results = append(doc.Results, jsonResult{
			ScanResult: r,
			Message:    r.Message(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
