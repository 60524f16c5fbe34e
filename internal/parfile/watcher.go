package parfile

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a burst of writes must settle before a change fires.
const debounce = 100 * time.Millisecond

// Change reports that the watched par file was written or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher monitors a single par file. Editors often replace files by rename,
// so the parent directory is watched and events are filtered by name.
type Watcher struct {
	Path    string
	Changes <-chan Change // Read-only external channel

	changes  chan Change
	done     chan struct{}
	watcher  *fsnotify.Watcher
	started  bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the par file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 4)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching. On failure the underlying watcher is closed.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It is safe to call when
// Start failed or was never called, and more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	var removed bool
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				pending, removed = time.Now(), false
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				pending, removed = time.Now(), true
			}

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < debounce {
				continue
			}
			pending = time.Time{}
			select {
			case w.changes <- Change{Path: w.Path, Removed: removed}:
			default:
				// A change is already queued; the reader will reload anyway.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
