package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peripheryapp/periphery-sub003/internal/errors"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Hints    []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}
	return "invalid configuration: " + strings.Join(vr.Errors, "; ")
}

// Check validates the configuration and returns every problem found
func (c *Config) Check() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(c.IndexStorePaths) == 0 {
		result.AddError("no index store path configured")
		result.Hints = append(result.Hints,
			"pass --index-store-path pointing at a JSON unit directory or a SQLite index (.db)")
	}

	if !isKnownFormat(c.Format) {
		result.AddError("unknown output format %q", c.Format)
		result.Hints = append(result.Hints,
			fmt.Sprintf("use one of: %s", strings.Join(Formats, ", ")))
	}

	globs := map[string][]string{
		"index_exclude":  c.IndexExclude,
		"report_include": c.ReportInclude,
		"report_exclude": c.ReportExclude,
		"retain_files":   c.RetainFiles,
	}
	for _, key := range []string{"index_exclude", "report_include", "report_exclude", "retain_files"} {
		for _, pattern := range globs[key] {
			if _, err := filepath.Match(pattern, ""); err != nil {
				result.AddError("%s: malformed glob %q", key, pattern)
			}
		}
	}

	if c.Baseline != "" && c.Baseline == c.WriteBaseline {
		result.AddWarning("baseline and write_baseline point at the same file; the new baseline replaces the old one after filtering")
	}
	if c.Quiet && c.Verbose {
		result.AddWarning("both quiet and verbose are set; verbose wins")
	}

	return result
}

// Validate returns a configuration error carrying a remediation hint when
// the configuration cannot drive a scan.
func (c *Config) Validate() error {
	result := c.Check()
	if !result.HasErrors() {
		return nil
	}

	err := errors.ConfigError(result.Error())
	if len(result.Hints) > 0 {
		err = err.WithHint(strings.Join(result.Hints, "; "))
	}
	return err
}

func isKnownFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
