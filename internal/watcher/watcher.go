// Package watcher reports changes to directories shown on screen. It uses
// fsnotify when available and falls back to periodic listing otherwise.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultPollInterval is used when falling back to polling.
const DefaultPollInterval = time.Second

// Op describes what happened to a directory entry.
type Op uint8

const (
	Create Op = 1 << iota
	Write
	Remove
	Rename
)

func (o Op) String() string {
	var parts []string
	for _, p := range []struct {
		op   Op
		name string
	}{{Create, "create"}, {Write, "write"}, {Remove, "remove"}, {Rename, "rename"}} {
		if o&p.op != 0 {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event is a single change inside a watched directory.
type Event struct {
	Path string
	Op   Op
}

func opFromFsnotify(op fsnotify.Op) Op {
	var o Op
	if op.Has(fsnotify.Create) {
		o |= Create
	}
	if op.Has(fsnotify.Write) {
		o |= Write
	}
	if op.Has(fsnotify.Remove) {
		o |= Remove
	}
	if op.Has(fsnotify.Rename) {
		o |= Rename
	}
	return o
}

// Handler receives coalesced events after the debounce window closes.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// Watcher watches directories (not recursively) for entry changes.
type Watcher struct {
	fs           *fsnotify.Watcher
	debouncer    *Debouncer
	handler      Handler
	errorHandler ErrorHandler

	pollMode     bool
	pollInterval time.Duration
	done         chan struct{}

	mu      sync.Mutex
	dirs    map[string]listing
	pending []Event
	closed  bool
}

// listing is the name -> (size, mtime) view of a directory used in poll mode.
type listing map[string]entryMeta

type entryMeta struct {
	size    int64
	modTime time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = handler
	}
}

// WithPollInterval sets the polling interval (used when polling mode is active).
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling forces polling mode.
func WithPolling(force bool) Option {
	return func(w *Watcher) {
		w.pollMode = force
	}
}

// New creates a Watcher that delivers batches of events to handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debouncer:    NewDebouncer(DefaultDebounceDuration),
		handler:      handler,
		pollInterval: DefaultPollInterval,
		dirs:         make(map[string]listing),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if !w.pollMode {
		fs, err := fsnotify.NewWatcher()
		if err != nil {
			w.reportError(fmt.Errorf("fsnotify unavailable, using polling fallback: %w", err))
			w.pollMode = true
		} else {
			w.fs = fs
		}
	}

	if w.pollMode {
		go w.runPoll()
	} else {
		go w.run()
	}
	return w, nil
}

// Add starts watching dir. Adding a directory twice is a no-op.
func (w *Watcher) Add(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watcher: %s is not a directory", abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if _, ok := w.dirs[abs]; ok {
		return nil
	}

	if w.pollMode {
		l, err := list(abs)
		if err != nil {
			return err
		}
		w.dirs[abs] = l
		return nil
	}
	if err := w.fs.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	w.dirs[abs] = nil
	return nil
}

// Close stops the watcher and releases resources. It is safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.debouncer.Cancel()
	close(w.done)
	if w.fs != nil {
		return w.fs.Close()
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if op := opFromFsnotify(ev.Op); op != 0 {
				w.enqueue([]Event{{Path: ev.Name, Op: op}})
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) runPoll() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.pollOnce()
		case <-w.done:
			return
		}
	}
}

// pollOnce re-lists every watched directory and diffs against the last listing.
func (w *Watcher) pollOnce() {
	w.mu.Lock()
	dirs := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		dirs = append(dirs, d)
	}
	w.mu.Unlock()

	var events []Event
	for _, dir := range dirs {
		cur, err := list(dir)
		if err != nil {
			w.reportError(err)
			continue
		}

		w.mu.Lock()
		prev, ok := w.dirs[dir]
		if !ok || w.closed {
			w.mu.Unlock()
			continue
		}
		events = append(events, diffListings(dir, prev, cur)...)
		w.dirs[dir] = cur
		w.mu.Unlock()
	}

	if len(events) > 0 {
		w.enqueue(events)
	}
}

func (w *Watcher) enqueue(events []Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = append(w.pending, events...)
	w.mu.Unlock()

	w.debouncer.Trigger(func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		batch := w.pending
		w.pending = nil
		w.mu.Unlock()

		if len(batch) > 0 && w.handler != nil {
			w.handler(batch)
		}
	})
}

func (w *Watcher) reportError(err error) {
	if w.errorHandler != nil {
		w.errorHandler(err)
	}
}

func list(dir string) (listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	l := make(listing, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info.
			continue
		}
		l[e.Name()] = entryMeta{size: info.Size(), modTime: info.ModTime()}
	}
	return l, nil
}

func diffListings(dir string, prev, cur listing) []Event {
	var events []Event
	for name, meta := range cur {
		old, ok := prev[name]
		switch {
		case !ok:
			events = append(events, Event{Path: filepath.Join(dir, name), Op: Create})
		case old != meta:
			events = append(events, Event{Path: filepath.Join(dir, name), Op: Write})
		}
	}
	for name := range prev {
		if _, ok := cur[name]; !ok {
			events = append(events, Event{Path: filepath.Join(dir, name), Op: Remove})
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}
