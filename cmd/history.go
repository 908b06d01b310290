package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-finder/internal/config"
	"github.com/Taichi-iskw/yt-finder/internal/repository/history"
	"github.com/Taichi-iskw/yt-finder/internal/repository/runlog"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Seen-video history operations",
	Long:  `Inspect and maintain the ledger of videos kept by previous runs.`,
}

// historyStatsCmd summarizes the ledger
var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		stats, err := history.NewRepository(pool).Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get history stats: %w", err)
		}

		result, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format stats: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

// historyClearCmd deletes the entire ledger
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire seen-video history",
	Long:  `Delete every history entry so previously seen videos can reappear in results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := history.NewRepository(pool).Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}

		fmt.Println("History cleared.")
		return nil
	},
}

// historyPruneCmd removes entries older than a retention window
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove history entries older than N days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		removed, err := history.NewRepository(pool).PruneOlderThan(ctx, days)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}

		fmt.Printf("Removed %d entries older than %d days.\n", removed, days)
		return nil
	},
}

// historyRunsCmd lists recent run logs
var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent search runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		logs, err := runlog.NewRepository(pool).List(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		result, err := json.MarshalIndent(logs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format runs: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

// openDatabase loads the app configuration and connects to PostgreSQL
func openDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}

func init() {
	historyPruneCmd.Flags().Int("days", 0, "Retention window in days (0 removes nothing)")
	historyRunsCmd.Flags().Int("limit", 10, "Maximum number of runs to show")

	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyRunsCmd)
	rootCmd.AddCommand(historyCmd)
}
