package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/platform/tui"
	"github.com/vovakirdan/arena-client/internal/registry"
	"github.com/vovakirdan/arena-client/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [feed]",
	Short: "Show best sizes",
	Long: `Display the best final sizes recorded for a feed, or a summary of
every feed when no feed is given.

Examples:
  arena scores
  arena scores demo
  arena scores file:session.jsonl --limit 20
  arena scores --tui
  arena scores demo --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse results in the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all results for the feed")
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := terminalSize()
		_, err := tui.RunScoreboard(store, width, height)
		return err
	}

	if len(args) == 0 {
		if flagScoresClear {
			return fmt.Errorf("--clear needs a feed name")
		}
		return printFeedStats(store)
	}

	feedID := args[0]
	if flagScoresClear {
		if err := store.ClearResults(feedID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s\n", feedID)
		return nil
	}
	return printTopResults(store, feedID)
}

func printTopResults(store *storage.Store, feedID string) error {
	results, err := store.TopResults(feedID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}

	title := registry.Title(feedID)
	if title == "" {
		title = feedID
	}
	fmt.Printf("Best Sizes - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Watch 'arena watch %s' to the end to record one!\n", feedID)
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-12s  %-7s  %s\n", "Rank", "Size", "Player", "Frames", "Date")
	fmt.Printf("  %-4s  %-6s  %-12s  %-7s  %s\n", "----", "----", "------", "------", "----")

	for i, r := range results {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-12s  %-7d  %s\n", i+1, r.Size, r.Player, r.Ticks, dateStr)
	}

	fmt.Println()
	if best, err := store.BestSize(feedID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printFeedStats(store *storage.Store) error {
	stats, err := store.FeedStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	if len(stats) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-8s  %-5s  %-7s  %s\n", "Feed", "Sessions", "Best", "Avg", "Last")
	fmt.Printf("  %-20s  %-8s  %-5s  %-7s  %s\n", "----", "--------", "----", "---", "----")
	for _, s := range stats {
		fmt.Printf("  %-20s  %-8d  %-5d  %-7.1f  %s\n",
			s.Feed, s.Sessions, s.BestSize, s.AvgSize, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
