// Package registry provides a global registry of named snapshot feeds.
// Feeds register themselves in init() functions, allowing the CLI and the
// SSH server to list and open feeds without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/arena-client/internal/feed"
)

// Options carries what a factory needs to open a feed.
type Options struct {
	Demo feed.DemoConfig
	Seed int64
}

// FeedInfo contains metadata about a registered feed.
type FeedInfo struct {
	ID    string
	Title string
}

// Factory opens a new instance of a feed.
type Factory func(opts Options) (feed.Source, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a feed factory to the registry.
// Typically called from an init() function.
// Panics if a feed with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: feed %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered feeds, sorted by ID.
func List() []FeedInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]FeedInfo, 0, len(factories))
	for id := range factories {
		result = append(result, FeedInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create opens a new feed by its ID.
// Returns an error if the feed ID is not registered or the factory fails.
func Create(id string, opts Options) (feed.Source, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown feed %q", id)
	}

	src, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: open feed %q: %w", id, err)
	}
	return src, nil
}

// Exists checks if a feed with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Title returns the display name of a registered feed.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	return titles[id]
}
