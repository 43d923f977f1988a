// arena is a terminal client for the multiplayer snake arena. It watches
// snapshot feeds, redrawing only the cells that changed between frames.
//
// Usage:
//
//	arena list                     - List registered feeds
//	arena watch <feed>             - Watch a feed (or --file a recording)
//	arena record <feed> --out f    - Record a feed to JSON lines
//	arena menu                     - Pick feeds interactively
//	arena serve                    - Start SSH server for remote viewers
//	arena scores [feed]            - Show best sizes
//	arena pose <x> <y>             - Convert a point between local and world frames
//
// Global flags:
//
//	--fps <rate>         - Snapshots per second (default: from config)
//	--seed <value>       - RNG seed for demo feeds
//	--db <path>          - Results database (default: ~/.arena/results.db)
//	--config <path>      - Config file (default: search order)
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arena-client/internal/config"
	"github.com/vovakirdan/arena-client/internal/registry"
	"github.com/vovakirdan/arena-client/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Arena - watch snake arena boards in your terminal",
	Long: `Arena is a terminal client for the multiplayer snake arena.
It pulls board snapshots from a feed and repaints only the cells that
changed since the previous frame.

Available commands:
  list     - Show all registered feeds
  watch    - Watch a feed or a recording
  record   - Record a feed to a JSON-lines file
  menu     - Interactive feed picker
  serve    - Start SSH server for remote viewers
  scores   - View best sizes
  pose     - Convert points between local and world frames

Examples:
  arena list
  arena watch demo
  arena watch --file session.jsonl
  arena record duel --out duel.jsonl --frames 500
  arena serve --ssh :2222
  arena scores demo`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Snapshots per second (0 = viewer.tick_rate from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for demo feeds (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arena/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(poseCmd)
	rootCmd.AddCommand(shipCmd)
}

// newLogger builds the stderr logger all commands share.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig loads the config and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagFPS > 0 {
		cfg.Viewer.TickRate = flagFPS
	}
	return cfg, nil
}

// openStore opens the results database. The viewer still works without
// it, so a failure only logs a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// feedOptions returns the registry options for a new feed.
func feedOptions(cfg config.Config) registry.Options {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return registry.Options{Demo: cfg.Demo, Seed: seed}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}
