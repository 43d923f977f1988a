package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/registry"
)

var (
	flagRecordOut    string
	flagRecordFrames int
)

var recordCmd = &cobra.Command{
	Use:   "record <feed>",
	Short: "Record a feed to a JSON-lines file",
	Long: `Record a feed's snapshots, one server message per line, until the
feed ends, --frames snapshots were written, or Ctrl+C is pressed.
The file can be replayed with 'arena watch --file'.

Examples:
  arena record demo --out demo.jsonl
  arena record duel --out duel.jsonl --frames 500 --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&flagRecordOut, "out", "o", "", "Output file (required)")
	recordCmd.Flags().IntVar(&flagRecordFrames, "frames", 0, "Stop after this many frames (0 = until the feed ends)")
	//nolint:errcheck // flag is defined above
	recordCmd.MarkFlagRequired("out")
}

func runRecord(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("arena")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	feedID := args[0]
	if !registry.Exists(feedID) {
		return fmt.Errorf("unknown feed %q (run 'arena list' to see available feeds)", feedID)
	}
	src, err := registry.Create(feedID, feedOptions(cfg))
	if err != nil {
		return err
	}
	defer src.Close()

	rec, err := feed.CreateFile(flagRecordOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, copyErr := feed.Copy(ctx, rec, src, flagRecordFrames)
	if closeErr := rec.Close(); closeErr != nil && copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil && !errors.Is(copyErr, context.Canceled) {
		return copyErr
	}

	logger.Info("recording finished", "feed", feedID, "frames", n, "out", flagRecordOut)
	fmt.Printf("Recorded %d frames of %s to %s\n", n, feedID, flagRecordOut)
	return nil
}
