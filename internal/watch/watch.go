// Package watch reports file activity inside live workspaces, letting
// operators observe agent progress without polling.
package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one observed filesystem change inside a workspace.
type Event struct {
	// AgentID owns the workspace the change happened in.
	AgentID string
	// Path is the changed file, relative to the workspace directory.
	Path string
	// Op describes the change (create, write, remove, rename, chmod).
	Op string
	// Time is when the event was observed.
	Time time.Time
}

// Watcher multiplexes fsnotify events from workspace directories onto
// a single channel, tagging each event with its owning agent.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}

	mu     sync.RWMutex
	agents map[string]string // workspace dir -> agentID

	closeOnce sync.Once
}

// New creates a Watcher. Callers must Close it when done.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
		agents:  make(map[string]string),
	}
	go w.run()
	return w, nil
}

// Add starts watching a workspace directory for the given agent.
func (w *Watcher) Add(agentID, dir string) error {
	w.mu.Lock()
	w.agents[dir] = agentID
	w.mu.Unlock()

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Events returns the stream of workspace changes. The channel closes
// when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching and releases resources. Safe to call twice.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// run forwards fsnotify events, dropping git bookkeeping noise.
func (w *Watcher) run() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if isGitInternal(event.Name) {
				continue
			}
			agentID, rel := w.resolve(event.Name)
			if agentID == "" {
				continue
			}
			select {
			case w.events <- Event{
				AgentID: agentID,
				Path:    rel,
				Op:      strings.ToLower(event.Op.String()),
				Time:    time.Now(),
			}:
			case <-w.done:
				return
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching.
		}
	}
}

// resolve maps an absolute event path back to its agent and the
// workspace-relative file path.
func (w *Watcher) resolve(name string) (agentID, rel string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for dir, id := range w.agents {
		if r, err := filepath.Rel(dir, name); err == nil && !strings.HasPrefix(r, "..") {
			return id, r
		}
	}
	return "", ""
}

// isGitInternal reports whether a path is git bookkeeping rather than
// agent work.
func isGitInternal(name string) bool {
	base := filepath.Base(name)
	if base == ".git" {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
