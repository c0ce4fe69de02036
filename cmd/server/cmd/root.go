package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "umbrella",
	Short: "Umbrella customizer server",
	Long: `Serves the umbrella customizer: pick a color, upload a logo and see
it previewed on the umbrella.

Available commands:
  serve         Start the web server
  new-module    Scaffold a new application module
  version       Print the version

Use "umbrella [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
