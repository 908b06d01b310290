package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytfinder",
	Short: "Quota-aware YouTube video discovery",
	Long: `ytfinder discovers YouTube videos matching keyword queries, enriches them
with channel statistics, filters them against user-defined criteria,
deduplicates them against previous runs and exports the survivors to CSV,
all while tracking the daily API quota budget.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
