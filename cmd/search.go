package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-finder/internal/config"
	"github.com/Taichi-iskw/yt-finder/internal/export"
	"github.com/Taichi-iskw/yt-finder/internal/quota"
	"github.com/Taichi-iskw/yt-finder/internal/repository/history"
	"github.com/Taichi-iskw/yt-finder/internal/repository/runlog"
	"github.com/Taichi-iskw/yt-finder/internal/service/runner"
	"github.com/Taichi-iskw/yt-finder/internal/service/search"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Keyword search operations",
	Long:  `Run keyword searches against YouTube and estimate their quota cost.`,
}

// searchRunCmd executes one search run
var searchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a keyword search",
	Long: `Run the full search pipeline for the keywords in the settings file:
page through search results, enrich them with channel statistics, apply
the configured filters, skip videos seen by previous runs and export the
survivors to a dated CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settingsPath, _ := cmd.Flags().GetString("settings")
		exportDir, _ := cmd.Flags().GetString("export-dir")

		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		if errs := settings.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid settings:\n  - %s", strings.Join(errs, "\n  - "))
		}

		// Refuse runs whose projected cost cannot fit the daily cap
		estimate := quota.EstimateSearch(len(settings.CleanKeywords()), settings.PagesPerKeyword)
		if estimate.TotalQuota > settings.APIQuotaCap {
			return fmt.Errorf("estimated quota (%d) exceeds the daily cap (%d): reduce keywords or pages",
				estimate.TotalQuota, settings.APIQuotaCap)
		}

		apiKey, err := config.APIKey()
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Ctrl-C requests a cooperative stop; partial results are saved
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		api, err := search.NewAPI(ctx, apiKey)
		if err != nil {
			return err
		}
		client := search.NewClient(api, logger)

		// A missing database degrades to a run without dedup or run logs
		var historyRepo history.Repository
		var runLogRepo runlog.Repository
		if pool, dbErr := openDatabase(ctx); dbErr != nil {
			logger.Warn("running without history database", "error", dbErr)
		} else {
			defer pool.Close()
			historyRepo = history.NewRepository(pool)
			runLogRepo = runlog.NewRepository(pool)
		}

		writer := export.NewWriter(exportDir)
		run := runner.NewRunner(client, historyRepo, runLogRepo, writer, logger)
		run.OnProgress(func(e runner.Event) {
			switch e.Type {
			case runner.EventKeywordStarted:
				fmt.Printf("Searching keyword %d/%d: %q\n", e.Index, e.Total, e.Keyword)
			case runner.EventKeywordFinished:
				fmt.Printf("  quota used: %d, scanned: %d, kept: %d, skipped: %d\n",
					e.QuotaUsed, e.Stats.Scanned, e.Stats.Kept, e.Stats.Skipped)
			case runner.EventQuotaWarning:
				fmt.Printf("  WARNING: %s (%d used)\n", e.Message, e.QuotaUsed)
			}
		})

		result, err := run.Run(ctx, settings)
		if err != nil {
			return fmt.Errorf("search run failed: %w", err)
		}

		fmt.Printf("\nScanned %d, kept %d, skipped %d (quota used: %d)\n",
			result.Stats.Scanned, result.Stats.Kept, result.Stats.Skipped, result.QuotaUsed)
		if result.Stopped {
			fmt.Println("Run stopped early; partial results were preserved.")
		}
		if result.OutputPath != "" {
			fmt.Printf("Saved %d result(s) to: %s\n", len(result.Records), result.OutputPath)
		} else {
			fmt.Println("No results matched the criteria.")
		}
		return nil
	},
}

// searchEstimateCmd projects the quota cost of a settings file
var searchEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the quota cost of a search",
	Long:  `Project the API quota a settings file would consume without running it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settingsPath, _ := cmd.Flags().GetString("settings")

		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}

		estimate := quota.EstimateSearch(len(settings.CleanKeywords()), settings.PagesPerKeyword)

		result, err := json.MarshalIndent(estimate, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format estimate: %w", err)
		}

		fmt.Println(string(result))
		if estimate.TotalQuota > settings.APIQuotaCap {
			fmt.Printf("Estimated quota exceeds the configured cap (%d).\n", settings.APIQuotaCap)
		}
		return nil
	},
}

func init() {
	searchRunCmd.Flags().String("settings", "settings.yaml", "Path to the run settings file")
	searchRunCmd.Flags().String("export-dir", "export", "Directory for result CSV files")
	searchEstimateCmd.Flags().String("settings", "settings.yaml", "Path to the run settings file")

	searchCmd.AddCommand(searchRunCmd)
	searchCmd.AddCommand(searchEstimateCmd)
	rootCmd.AddCommand(searchCmd)
}
