package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the scan command.
const (
	FormatXcode         = "xcode"
	FormatJSON          = "json"
	FormatCSV           = "csv"
	FormatGitHubActions = "github-actions"
)

// Formats lists every supported output format.
var Formats = []string{FormatXcode, FormatJSON, FormatCSV, FormatGitHubActions}

// Config holds all configuration settings for a scan
type Config struct {
	// Index inputs
	IndexStorePaths    []string `mapstructure:"index_store_paths" yaml:"index_store_paths"`
	SourceFiles        []string `mapstructure:"source_files" yaml:"source_files"`
	IndexExclude       []string `mapstructure:"index_exclude" yaml:"index_exclude"`
	RequireSourceFiles bool     `mapstructure:"require_source_files" yaml:"require_source_files"`
	ProjectRoot        string   `mapstructure:"project_root" yaml:"project_root"`

	// Retention
	RetainPublic                   bool     `mapstructure:"retain_public" yaml:"retain_public"`
	RetainObjCAccessible           bool     `mapstructure:"retain_objc_accessible" yaml:"retain_objc_accessible"`
	RetainObjCAnnotated            bool     `mapstructure:"retain_objc_annotated" yaml:"retain_objc_annotated"`
	RetainAssignOnlyProperties     bool     `mapstructure:"retain_assign_only_properties" yaml:"retain_assign_only_properties"`
	RetainAssignOnlyPropertyTypes  []string `mapstructure:"retain_assign_only_property_types" yaml:"retain_assign_only_property_types"`
	RetainUnusedProtocolFuncParams bool     `mapstructure:"retain_unused_protocol_func_params" yaml:"retain_unused_protocol_func_params"`
	RetainCodableProperties        bool     `mapstructure:"retain_codable_properties" yaml:"retain_codable_properties"`
	RetainEncodableProperties      bool     `mapstructure:"retain_encodable_properties" yaml:"retain_encodable_properties"`
	RetainFiles                    []string `mapstructure:"retain_files" yaml:"retain_files"`
	RetainUnusedImportedModules    []string `mapstructure:"retain_unused_imported_modules" yaml:"retain_unused_imported_modules"`
	ExternalEncodableProtocols     []string `mapstructure:"external_encodable_protocols" yaml:"external_encodable_protocols"`
	ExternalCodableProtocols       []string `mapstructure:"external_codable_protocols" yaml:"external_codable_protocols"`
	ExternalTestCaseClasses        []string `mapstructure:"external_test_case_classes" yaml:"external_test_case_classes"`

	// Analysis switches
	DisableUnusedImportAnalysis         bool `mapstructure:"disable_unused_import_analysis" yaml:"disable_unused_import_analysis"`
	DisableRedundantConformanceAnalysis bool `mapstructure:"disable_redundant_conformance_analysis" yaml:"disable_redundant_conformance_analysis"`

	// Result filtering
	ReportInclude []string `mapstructure:"report_include" yaml:"report_include"`
	ReportExclude []string `mapstructure:"report_exclude" yaml:"report_exclude"`
	Baseline      string   `mapstructure:"baseline" yaml:"baseline"`
	WriteBaseline string   `mapstructure:"write_baseline" yaml:"write_baseline"`
	BaseBranch    string   `mapstructure:"base_branch" yaml:"base_branch"`

	// Output
	Format  string `mapstructure:"format" yaml:"format"`
	Strict  bool   `mapstructure:"strict" yaml:"strict"`
	Quiet   bool   `mapstructure:"quiet" yaml:"quiet"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	JSONLogs bool   `mapstructure:"json_logs" yaml:"json_logs"`

	// Execution
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`
	Workers   int    `mapstructure:"workers" yaml:"workers"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		ProjectRoot:                   ".",
		RetainAssignOnlyPropertyTypes: []string{},
		ExternalEncodableProtocols:    []string{},
		ExternalCodableProtocols:      []string{},
		ExternalTestCaseClasses:       []string{},
		Format:                        FormatXcode,
		LogLevel:                      "info",
		Workers:                       runtime.NumCPU(),
	}
}

// defaults maps every config key to its default so viper can bind
// environment variables to it.
func (c *Config) defaults() map[string]interface{} {
	return map[string]interface{}{
		"index_store_paths":                      c.IndexStorePaths,
		"source_files":                           c.SourceFiles,
		"index_exclude":                          c.IndexExclude,
		"require_source_files":                   c.RequireSourceFiles,
		"project_root":                           c.ProjectRoot,
		"retain_public":                          c.RetainPublic,
		"retain_objc_accessible":                 c.RetainObjCAccessible,
		"retain_objc_annotated":                  c.RetainObjCAnnotated,
		"retain_assign_only_properties":          c.RetainAssignOnlyProperties,
		"retain_assign_only_property_types":      c.RetainAssignOnlyPropertyTypes,
		"retain_unused_protocol_func_params":     c.RetainUnusedProtocolFuncParams,
		"retain_codable_properties":              c.RetainCodableProperties,
		"retain_encodable_properties":            c.RetainEncodableProperties,
		"retain_files":                           c.RetainFiles,
		"retain_unused_imported_modules":         c.RetainUnusedImportedModules,
		"external_encodable_protocols":           c.ExternalEncodableProtocols,
		"external_codable_protocols":             c.ExternalCodableProtocols,
		"external_test_case_classes":             c.ExternalTestCaseClasses,
		"disable_unused_import_analysis":         c.DisableUnusedImportAnalysis,
		"disable_redundant_conformance_analysis": c.DisableRedundantConformanceAnalysis,
		"report_include":                         c.ReportInclude,
		"report_exclude":                         c.ReportExclude,
		"baseline":                               c.Baseline,
		"write_baseline":                         c.WriteBaseline,
		"base_branch":                            c.BaseBranch,
		"format":                                 c.Format,
		"strict":                                 c.Strict,
		"quiet":                                  c.Quiet,
		"verbose":                                c.Verbose,
		"log_level":                              c.LogLevel,
		"log_file":                               c.LogFile,
		"json_logs":                              c.JSONLogs,
		"cache_path":                             c.CachePath,
		"workers":                                c.Workers,
	}
}

// Load loads configuration from file. An empty path searches for
// .periphery.yml in the working directory and in $HOME/.periphery.
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	for key, value := range cfg.defaults() {
		v.SetDefault(key, value)
	}

	// Load from environment variables, e.g. PERIPHERY_RETAIN_PUBLIC=true
	v.SetEnvPrefix("PERIPHERY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".periphery")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".periphery"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides variables that are already set, so earlier files win.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// normalize expands paths and drops empty list entries left behind by
// comma separated environment values.
func (c *Config) normalize() {
	c.IndexStorePaths = expandPaths(c.IndexStorePaths)
	c.SourceFiles = compact(c.SourceFiles)
	c.IndexExclude = compact(c.IndexExclude)
	c.ReportInclude = compact(c.ReportInclude)
	c.ReportExclude = compact(c.ReportExclude)
	c.RetainFiles = compact(c.RetainFiles)
	c.RetainUnusedImportedModules = compact(c.RetainUnusedImportedModules)
	c.Baseline = expandPath(c.Baseline)
	c.WriteBaseline = expandPath(c.WriteBaseline)
	c.LogFile = expandPath(c.LogFile)
	c.CachePath = expandPath(c.CachePath)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
}

func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func expandPaths(paths []string) []string {
	paths = compact(paths)
	for i, p := range paths {
		paths[i] = expandPath(p)
	}
	return paths
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// YAML renders the effective configuration
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}
