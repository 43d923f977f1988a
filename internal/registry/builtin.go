package registry

import "github.com/vovakirdan/arena-client/internal/feed"

func init() {
	Register("demo", "Demo (solo snake)", func(opts Options) (feed.Source, error) {
		return openDemo(opts.Demo, opts.Seed)
	})
	Register("duel", "Duel (two snakes)", func(opts Options) (feed.Source, error) {
		cfg := opts.Demo
		cfg.Snakes = 2
		return openDemo(cfg, opts.Seed)
	})
}

func openDemo(cfg feed.DemoConfig, seed int64) (feed.Source, error) {
	d, err := feed.NewDemo(cfg, seed)
	if err != nil {
		return nil, err
	}
	return d, nil
}
