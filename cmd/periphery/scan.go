package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/output"
	"github.com/peripheryapp/periphery-sub003/internal/scan"
)

// errResultsFound makes --strict exit non-zero without printing an error
var errResultsFound = stderrors.New("results found")

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan an index store for unused code",
	Long: `Scan indexes one or more index stores, runs the analysis and prints the
results in the configured format.

Examples:
  # Scan a JSON unit store
  periphery scan --index-store-path .build/index

  # Only report results on lines changed since main
  periphery scan --index-store-path index.db --base-branch main

  # Accept current results and only report new ones from now on
  periphery scan --index-store-path index.db --write-baseline .periphery_baseline.json
  periphery scan --index-store-path index.db --baseline .periphery_baseline.json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

type stringSliceFlag struct {
	name   string
	usage  string
	target func(*config.Config) *[]string
}

type boolFlag struct {
	name   string
	usage  string
	target func(*config.Config) *bool
}

type stringFlag struct {
	name   string
	usage  string
	target func(*config.Config) *string
}

var scanSliceFlags = []stringSliceFlag{
	{"index-store-path", "index store to read (JSON unit directory or SQLite file), repeatable", func(c *config.Config) *[]string { return &c.IndexStorePaths }},
	{"source-file", "only index units for these source files", func(c *config.Config) *[]string { return &c.SourceFiles }},
	{"index-exclude", "glob of source files to exclude from indexing", func(c *config.Config) *[]string { return &c.IndexExclude }},
	{"report-include", "only report results in files matching these globs", func(c *config.Config) *[]string { return &c.ReportInclude }},
	{"report-exclude", "never report results in files matching these globs", func(c *config.Config) *[]string { return &c.ReportExclude }},
	{"retain-files", "retain every declaration in files matching these globs", func(c *config.Config) *[]string { return &c.RetainFiles }},
	{"retain-unused-imported-modules", "never report these modules as unused imports", func(c *config.Config) *[]string { return &c.RetainUnusedImportedModules }},
	{"retain-assign-only-property-types", "property types exempt from assign-only analysis", func(c *config.Config) *[]string { return &c.RetainAssignOnlyPropertyTypes }},
	{"external-encodable-protocols", "protocols outside the project that inherit Encodable", func(c *config.Config) *[]string { return &c.ExternalEncodableProtocols }},
	{"external-codable-protocols", "protocols outside the project that inherit Codable", func(c *config.Config) *[]string { return &c.ExternalCodableProtocols }},
	{"external-test-case-classes", "XCTestCase subclasses outside the project", func(c *config.Config) *[]string { return &c.ExternalTestCaseClasses }},
}

var scanBoolFlags = []boolFlag{
	{"retain-public", "retain all public declarations", func(c *config.Config) *bool { return &c.RetainPublic }},
	{"retain-objc-accessible", "retain declarations exposed to Objective-C", func(c *config.Config) *bool { return &c.RetainObjCAccessible }},
	{"retain-objc-annotated", "retain declarations explicitly annotated @objc", func(c *config.Config) *bool { return &c.RetainObjCAnnotated }},
	{"retain-assign-only-properties", "do not report assign-only properties", func(c *config.Config) *bool { return &c.RetainAssignOnlyProperties }},
	{"retain-unused-protocol-func-params", "do not report unused parameters of protocol functions", func(c *config.Config) *bool { return &c.RetainUnusedProtocolFuncParams }},
	{"retain-codable-properties", "retain properties of Codable types", func(c *config.Config) *bool { return &c.RetainCodableProperties }},
	{"retain-encodable-properties", "retain properties of Encodable types", func(c *config.Config) *bool { return &c.RetainEncodableProperties }},
	{"disable-unused-import-analysis", "do not report unused imports", func(c *config.Config) *bool { return &c.DisableUnusedImportAnalysis }},
	{"disable-redundant-conformance-analysis", "do not report redundant protocol conformances", func(c *config.Config) *bool { return &c.DisableRedundantConformanceAnalysis }},
	{"require-source-files", "treat units whose source file is missing as errors", func(c *config.Config) *bool { return &c.RequireSourceFiles }},
	{"strict", "exit with status 1 when results are reported", func(c *config.Config) *bool { return &c.Strict }},
	{"json-logs", "write logs as JSON", func(c *config.Config) *bool { return &c.JSONLogs }},
}

var scanStringFlags = []stringFlag{
	{"project-root", "root that relative paths and globs are resolved against", func(c *config.Config) *string { return &c.ProjectRoot }},
	{"baseline", "baseline file of results to suppress", func(c *config.Config) *string { return &c.Baseline }},
	{"write-baseline", "write the reported results to a baseline file", func(c *config.Config) *string { return &c.WriteBaseline }},
	{"base-branch", "only report results on lines changed since this branch", func(c *config.Config) *string { return &c.BaseBranch }},
	{"format", "output format: xcode, json, csv, github-actions", func(c *config.Config) *string { return &c.Format }},
	{"cache", "unit cache database reused across scans", func(c *config.Config) *string { return &c.CachePath }},
	{"log-file", "also write logs to this file", func(c *config.Config) *string { return &c.LogFile }},
}

func init() {
	defaults := config.Default()
	for _, f := range scanSliceFlags {
		scanCmd.Flags().StringSlice(f.name, nil, f.usage)
	}
	for _, f := range scanBoolFlags {
		scanCmd.Flags().Bool(f.name, *f.target(defaults), f.usage)
	}
	for _, f := range scanStringFlags {
		scanCmd.Flags().String(f.name, *f.target(defaults), f.usage)
	}
	scanCmd.Flags().Int("workers", defaults.Workers, "number of units decoded in parallel")
}

// applyScanFlags overrides configuration with flags given on the command
// line. Flags left at their defaults never override the config file.
func applyScanFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	for _, f := range scanSliceFlags {
		if flags.Changed(f.name) {
			v, err := flags.GetStringSlice(f.name)
			if err != nil {
				return err
			}
			*f.target(c) = v
		}
	}
	for _, f := range scanBoolFlags {
		if flags.Changed(f.name) {
			v, err := flags.GetBool(f.name)
			if err != nil {
				return err
			}
			*f.target(c) = v
		}
	}
	for _, f := range scanStringFlags {
		if flags.Changed(f.name) {
			v, err := flags.GetString(f.name)
			if err != nil {
				return err
			}
			*f.target(c) = v
		}
	}
	if flags.Changed("workers") {
		v, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		c.Workers = v
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}

	for _, w := range cfg.Check().Warnings {
		logger.Warn(w)
	}

	res, err := scan.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(cfg.Format, os.Stdout)
	if err := formatter.Format(&output.Report{ScanID: res.ScanID, Results: res.Results}, os.Stdout); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if len(res.Results) == 0 && cfg.Format == config.FormatXcode && !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "* No unused code detected.")
	}

	if cfg.Strict && len(res.Results) > 0 {
		return errResultsFound
	}
	return nil
}
