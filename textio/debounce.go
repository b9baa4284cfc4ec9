package textio

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid text updates into single commits: the commit
// callback sees at most one update per debounce window, always the most
// recent one.
type Debouncer struct {
	window time.Duration
	commit func(string)

	lock    sync.Mutex
	timer   *time.Timer
	pending string
	dirty   bool
}

func NewDebouncer(window time.Duration, commit func(string)) *Debouncer {
	return &Debouncer{
		window: window,
		commit: commit,
	}
}

// Update replaces the pending text and (re)arms the debounce window.
func (d *Debouncer) Update(text string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.pending = text
	d.dirty = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
	} else {
		d.timer.Reset(d.window)
	}
}

// Flush commits the pending update immediately, if there is one.
func (d *Debouncer) Flush() {
	d.fire()
}

// Close drops any pending update without committing it.
func (d *Debouncer) Close() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.dirty = false
}

func (d *Debouncer) fire() {
	d.lock.Lock()
	if !d.dirty {
		d.lock.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.dirty = false
	text := d.pending
	d.lock.Unlock()

	d.commit(text)
}
