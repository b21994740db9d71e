// Package main provides the entry point for the stagegate CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagegate-dev/stagegate/cmd/stagegate/commands"
	"github.com/stagegate-dev/stagegate/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stagegate",
		Short: "Stagegate - post-generation validation for scaffolded frontends",
		Long: `Stagegate validates generated React/TypeScript project trees.

Commands:
  check     Run the stage checkers and the module resolution engine
  mcp       Start an MCP server exposing validation as a tool`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "stagegate %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
