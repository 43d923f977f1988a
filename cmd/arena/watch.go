package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/platform/tui"
	"github.com/vovakirdan/arena-client/internal/registry"
)

var flagWatchFile string

var watchCmd = &cobra.Command{
	Use:   "watch [feed]",
	Short: "Watch a feed",
	Long: `Watch a registered feed, or replay a recording with --file.

The board is redrawn incrementally: each snapshot repaints only the cells
whose value changed, and identical snapshots are skipped entirely.

Controls:
  Arrows/WASD  - Steer your snake (demo feeds)
  P            - Pause
  F            - Force a full redraw
  Ctrl+S       - Screenshot to ~/.arena/screenshots
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Examples:
  arena watch demo
  arena watch duel --fps 20 --seed 42
  arena watch --file session.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchFile, "file", "", "Replay a JSON-lines recording")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("arena")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		src    feed.Source
		feedID string
	)
	switch {
	case flagWatchFile != "" && len(args) > 0:
		return errors.New("give either a feed name or --file, not both")
	case flagWatchFile != "":
		fs, openErr := feed.OpenFile(flagWatchFile)
		if openErr != nil {
			return openErr
		}
		src, feedID = fs, "file:"+filepath.Base(flagWatchFile)
	case len(args) == 1:
		if !registry.Exists(args[0]) {
			return fmt.Errorf("unknown feed %q (run 'arena list' to see available feeds)", args[0])
		}
		src, err = registry.Create(args[0], feedOptions(cfg))
		if err != nil {
			return err
		}
		feedID = args[0]
	default:
		return errors.New("missing feed name (or --file)")
	}
	defer src.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	logger.Debug("watching", "feed", feedID, "tick_rate", cfg.Viewer.TickRate)

	return tui.Run(src, tui.ViewerOptions{
		FeedID: feedID,
		Config: cfg,
		Store:  store,
		Logger: logger,
		Width:  width,
		Height: height,
	})
}
