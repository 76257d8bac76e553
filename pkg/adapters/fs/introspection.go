package fs

import (
	"slices"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Root          string     `json:"root"`
	Pattern       string     `json:"pattern"`
	Output        string     `json:"output"`
	Versioning    bool       `json:"versioning"`
	Serializers   []string   `json:"serializers"`
	WatcherActive bool       `json:"watcher_active"`
	LastScan      *time.Time `json:"last_scan,omitempty"`
	Documents     int        `json:"documents"`
	Published     int        `json:"published"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	slices.Sort(serializers)

	return RepositoryState{
		Root:          r.Root,
		Pattern:       r.config.Pattern,
		Output:        r.config.Output,
		Versioning:    r.config.Versioning,
		Serializers:   serializers,
		WatcherActive: r.watcherActive,
		LastScan:      r.lastScan,
		Documents:     r.scanned,
		Published:     r.published,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
