package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regseek/pkg/core"
)

func waitEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func waitWatcher(t *testing.T, repo *Repository, expected bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if repo.State().(RepositoryState).WatcherActive == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "persistence"), 0755))

	repo := NewRepository(Config{Root: root, Debounce: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx)
	require.NoError(t, err)
	waitWatcher(t, repo, true)

	t.Run("Create", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "persistence", "services.yaml"), []byte("name: Services\n"), 0644))
		e := waitEvent(t, events)
		assert.Equal(t, "persistence/services.yaml", e.Source)
		assert.Equal(t, core.EventCreate, e.Type, "create followed by write coalesces into a create")
	})

	t.Run("Ignores Non Documents", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "persistence", "notes.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "persistence", "_draft.yaml"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "persistence", "run-keys.yaml"), []byte("name: Run\n"), 0644))

		e := waitEvent(t, events)
		assert.Equal(t, "persistence/run-keys.yaml", e.Source)
	})

	t.Run("New Category Directory", func(t *testing.T) {
		dir := filepath.Join(root, "usb-devices")
		require.NoError(t, os.MkdirAll(dir, 0755))
		// Give the watcher time to register the new directory.
		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "usbstor.yaml"), []byte("name: USBSTOR\n"), 0644))

		e := waitEvent(t, events)
		assert.Equal(t, "usb-devices/usbstor.yaml", e.Source)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(root, "persistence", "services.yaml")))
		e := waitEvent(t, events)
		assert.Equal(t, core.EventDelete, e.Type)
	})

	cancel()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(3 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
	waitWatcher(t, repo, false)
}

func TestWatch_MissingRoot(t *testing.T) {
	repo := NewRepository(Config{Root: filepath.Join(t.TempDir(), "missing")})
	_, err := repo.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrCorpusNotFound)
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	fired := make(chan core.Event, 10)
	fire := func(e core.Event) { fired <- e }

	d.add(core.Event{Type: core.EventCreate, Source: "a.yaml"}, fire)
	d.add(core.Event{Type: core.EventModify, Source: "a.yaml"}, fire)
	d.add(core.Event{Type: core.EventModify, Source: "b.yaml"}, fire)

	got := map[string]core.EventType{}
	for range 2 {
		select {
		case e := <-fired:
			got[e.Source] = e.Type
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for debounced event")
		}
	}
	assert.Equal(t, map[string]core.EventType{"a.yaml": core.EventCreate, "b.yaml": core.EventModify}, got)

	d.stopAndWait(time.Second)
	d.add(core.Event{Type: core.EventModify, Source: "c.yaml"}, fire)
	select {
	case e := <-fired:
		t.Fatalf("unexpected event after stop: %v", e)
	case <-time.After(80 * time.Millisecond):
	}
}
