package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), versionString())
	},
}

func versionString() string {
	return fmt.Sprintf("Periphery %s\nBuild time: %s\nGit commit: %s\nGo: %s %s/%s\n",
		Version, BuildTime, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
