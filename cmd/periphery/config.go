package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect Periphery configuration",
	Long: `Print the effective configuration as YAML. Subcommands show or validate
it explicitly.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after merging the config file, .env files and
PERIPHERY_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration without scanning",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	result := cfg.Check()
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
