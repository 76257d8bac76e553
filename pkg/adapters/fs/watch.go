package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/regseek/pkg/core"
)

// DefaultDebounce is the quiet period after which a burst of changes to one file is emitted.
const DefaultDebounce = 100 * time.Millisecond

// Watch implements core.Watchable. Events are debounced per document and the
// channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.recursiveAdd(watcher, r.Root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	delay := r.config.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}

	events := make(chan core.Event)
	deb := newDebouncer(delay)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := r.watchLoop(ctx, watcher, deb, events)

		// In-flight timers may still send; they must finish before the channel closes.
		deb.stopAndWait(5 * time.Second)
		_ = watcher.Close()
		r.setWatcherActive(false)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("watcher stopped", "error", err)
	}))

	r.logger.Debug("watching corpus", "root", r.Root, "pattern", r.config.Pattern)
	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, deb *debouncer, out chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := r.translate(watcher, event)
			if !ok {
				continue
			}
			deb.add(e, func(e core.Event) {
				// The channel may already be closed if shutdown timed out.
				defer func() { _ = recover() }()
				select {
				case out <- e:
				case <-ctx.Done():
				}
			})

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// translate maps a raw filesystem event to a corpus event. New directories
// are registered with the watcher and never emitted themselves.
func (r *Repository) translate(watcher *fsnotify.Watcher, event fsnotify.Event) (core.Event, bool) {
	r.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := r.recursiveAdd(watcher, event.Name); err != nil {
				r.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return core.Event{}, false
		}
	}

	rel, ok := r.relative(event.Name)
	if !ok || r.shouldIgnore(rel) {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Source: rel, Timestamp: time.Now().Unix()}, true
}

// shouldIgnore filters templates, atomic write leftovers, the published
// dataset and anything outside the discovery pattern.
func (r *Repository) shouldIgnore(rel string) bool {
	if isTemplate(rel) || strings.HasPrefix(filepath.Base(rel), TempFilePrefix) {
		return true
	}
	if out, ok := r.relativeOutput(); ok && out == rel {
		return true
	}
	match, err := doublestar.Match(r.config.Pattern, rel)
	return err != nil || !match
}

func (r *Repository) relativeOutput() (string, bool) {
	abs, err := filepath.Abs(r.config.Output)
	if err != nil {
		return "", false
	}
	return r.relative(abs)
}

// recursiveAdd registers dir and every directory below it, skipping hidden ones.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
