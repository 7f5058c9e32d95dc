package watcher

import (
	"slices"
	"sync"
	"time"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Debouncer coalesces bursts of file events into one callback per window.
// Paths are mapped to keys first, so many writes under one job directory
// produce a single key.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	keyOf    func(path string) (string, bool)
	callback func(keys []string)
}

// NewDebouncer creates a debouncer. keyOf maps a path to its key and reports
// false for paths to ignore. A nil keyOf uses the path itself.
func NewDebouncer(window time.Duration, keyOf func(string) (string, bool), callback func(keys []string)) *Debouncer {
	if keyOf == nil {
		keyOf = func(path string) (string, bool) { return path, true }
	}
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		keyOf:    keyOf,
		callback: callback,
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	key, ok := d.keyOf(path)
	if !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[key] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	keys := d.drain()
	d.mu.Unlock()

	if len(keys) > 0 && d.callback != nil {
		d.callback(keys)
	}
}

// Flush runs the callback for pending keys now and waits for it to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// fire is already running.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	keys := d.drain()
	d.mu.Unlock()

	if len(keys) > 0 && d.callback != nil {
		d.callback(keys)
	}
}

// drain empties the pending set and returns its keys sorted. d.mu must be held.
func (d *Debouncer) drain() []string {
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	clear(d.pending)
	slices.Sort(keys)
	return keys
}
