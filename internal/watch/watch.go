// Package watch re-scans a fossil checkout when files under it change.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the minimum interval between two triggered re-scans.
const Debounce = 600 * time.Millisecond

// CheckoutWatcher watches a checkout tree and coalesces filesystem events
// into refresh signals.
type CheckoutWatcher struct {
	root        string
	watcher     *fsnotify.Watcher
	events      chan struct{}
	done        chan struct{}
	mu          sync.Mutex
	paths       map[string]struct{}
	lastRefresh time.Time
	started     bool
	logf        func(string, ...any)
}

// New creates a watcher for the checkout rooted at root.
func New(root string, logf func(string, ...any)) *CheckoutWatcher {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &CheckoutWatcher{root: filepath.Clean(root), logf: logf}
}

// Start registers every directory under the checkout root and begins
// delivering events. Safe to call once.
func (w *CheckoutWatcher) Start() error {
	if w.started {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.started = true
	w.watcher = watcher
	w.events = make(chan struct{}, 1)
	w.done = make(chan struct{})
	w.paths = make(map[string]struct{})

	w.addWatchTree(w.root)

	go w.run()
	return nil
}

// Stop stops the watcher and closes channels.
func (w *CheckoutWatcher) Stop() {
	if !w.started {
		return
	}
	close(w.done)
	w.started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// Events returns the coalesced refresh channel.
func (w *CheckoutWatcher) Events() <-chan struct{} {
	return w.events
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *CheckoutWatcher) ShouldRefresh(now time.Time) bool {
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < Debounce {
		return false
	}
	w.lastRefresh = now
	return true
}

// isCheckoutDB reports whether the path is fossil's own checkout state, which
// changes on every query and must not trigger a refresh loop.
func isCheckoutDB(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".fslckout") || strings.HasPrefix(base, "_FOSSIL_")
}

func (w *CheckoutWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if isCheckoutDB(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logf("checkout watcher error: %v", err)
		}
	}
}

func (w *CheckoutWatcher) signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *CheckoutWatcher) maybeWatchNewDir(path string) {
	if path != w.root && !strings.HasPrefix(path, w.root+string(filepath.Separator)) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *CheckoutWatcher) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logf("checkout watcher add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *CheckoutWatcher) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}
