package fs

import (
	"sync"
	"time"

	"github.com/aretw0/regseek/pkg/core"
)

// debouncer coalesces bursts of events for the same document into one.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules fire for e after the quiet period, replacing any event
// already pending for the same source.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if prev, ok := d.pending[e.Source]; ok {
		e = merge(prev.event, e)
		if prev.timer.Stop() {
			d.wg.Done()
		}
	}

	p := &pendingEvent{event: e}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[p.event.Source] != p {
			d.mu.Unlock()
			return
		}
		delete(d.pending, p.event.Source)
		d.mu.Unlock()
		fire(p.event)
	})
	d.pending[e.Source] = p
}

// stopAndWait drops pending events and waits for running callbacks, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// merge keeps a creation a creation until the file disappears again.
func merge(prev, next core.Event) core.Event {
	if prev.Type == core.EventCreate && next.Type == core.EventModify {
		next.Type = core.EventCreate
	}
	return next
}
