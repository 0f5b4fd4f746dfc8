package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	quiet   bool
	logger  *logging.Logger
	cfg     *config.Config
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Close()
	}
	if err != nil {
		if err != errResultsFound {
			printError(err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "periphery",
	Short: "Periphery - find unused code in Swift projects",
	Long: `Periphery reads the index store produced by a Swift build, builds a graph
of declarations and references, and reports unused declarations, unused
parameters, redundant protocols and conformances, and unused imports.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "failed to load configuration").
				WithHint("check the YAML syntax of " + configName())
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Verbose = verbose
		}
		if cmd.Flags().Changed("quiet") {
			cfg.Quiet = quiet
		}

		level, err := logging.ParseLevel(cfg.LogLevel, cfg.Verbose, cfg.Quiet)
		if err != nil {
			return errors.ConfigError(err.Error()).WithHint("use one of: debug, info, warn, error")
		}
		logger, err = logging.New(logging.Config{
			Level:      level,
			Output:     os.Stderr,
			OutputFile: cfg.LogFile,
			JSONFormat: cfg.JSONLogs,
		})
		if err != nil {
			return errors.FileSystemError(err, "failed to initialize logging")
		}
		logger.WithFields(logrus.Fields{
			"version": Version,
			"config":  configName(),
		}).Debug("Configuration loaded")
		return nil
	},
}

// printError reports a failed command. Verbose runs get the error's
// context and stack trace.
func printError(err error) {
	var e *errors.Error
	if cfg != nil && cfg.Verbose && stderrors.As(err, &e) {
		fmt.Fprint(os.Stderr, e.DetailedString())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if hint := errors.HintOf(err); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
}

func configName() string {
	if cfgFile != "" {
		return cfgFile
	}
	return ".periphery.yml"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .periphery.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only output results and warnings")

	rootCmd.SetVersionTemplate(`Periphery {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
