package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/platform/tui"
	"github.com/vovakirdan/arena-client/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick feeds from an interactive menu",
	Long: `Start the client in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to watch a feed.
When a feed ends, press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Watch feed
  Tab          - Scoreboard
  Q            - Quit

Examples:
  arena menu
  arena menu --fps 30
  arena menu --db ./results.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("arena")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()

	for {
		menuResult, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		width, height = menuResult.Width, menuResult.Height

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		src, err := registry.Create(menuResult.FeedID, feedOptions(cfg))
		if err != nil {
			logger.Error("could not open feed", "feed", menuResult.FeedID, "error", err)
			continue
		}

		runErr := tui.Run(src, tui.ViewerOptions{
			FeedID: menuResult.FeedID,
			Config: cfg,
			Store:  store,
			Logger: logger,
			Width:  width,
			Height: height,
		})
		//nolint:errcheck // the feed is finished either way
		src.Close()
		if runErr != nil {
			fmt.Printf("Error watching %s: %v\n", menuResult.FeedID, runErr)
		}
	}
}
