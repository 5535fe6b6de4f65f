package session

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// SignalWatcher lets an operator cancel in-flight runs by dropping files
// into a signals directory: `cancel-<userkey>` cancels one user's run,
// `cancel-all` cancels everything. Signal files are removed after they
// are acted on.
type SignalWatcher struct {
	signalsDir string
	manager    *Manager
	watcher    *fsnotify.Watcher
	done       chan struct{}
}

// NewSignalWatcher creates the signals directory and starts watching it.
// Returns an error only when the directory cannot be created; a failed
// watcher degrades to no signal handling rather than failing startup.
func NewSignalWatcher(runtimeDir string, manager *Manager) (*SignalWatcher, error) {
	signalsDir := filepath.Join(runtimeDir, "signals")
	if err := os.MkdirAll(signalsDir, 0755); err != nil {
		return nil, err
	}

	sw := &SignalWatcher{
		signalsDir: signalsDir,
		manager:    manager,
		done:       make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[session] signal watcher unavailable: %v", err)
		return sw, nil
	}
	if err := watcher.Add(signalsDir); err != nil {
		watcher.Close()
		log.Printf("[session] cannot watch %s: %v", signalsDir, err)
		return sw, nil
	}
	sw.watcher = watcher

	go sw.watch()
	return sw, nil
}

// watch reacts to signal files as they appear.
func (sw *SignalWatcher) watch() {
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			sw.handleSignal(filepath.Base(event.Name))
		case <-sw.watcher.Errors:
			// Keep watching through transient errors.
		}
	}
}

func (sw *SignalWatcher) handleSignal(name string) {
	const reason = "cancelled by operator signal"

	switch {
	case name == "cancel-all":
		n := sw.manager.CancelAll(reason)
		log.Printf("[session] operator signal: cancelled %d active run(s)", n)
	case strings.HasPrefix(name, "cancel-"):
		userKey := strings.TrimPrefix(name, "cancel-")
		if sw.manager.CancelUser(userKey, reason) {
			log.Printf("[session] operator signal: cancelled run for %s", userKey)
		}
	default:
		return
	}

	os.Remove(filepath.Join(sw.signalsDir, name))
}

// Close stops the watcher.
func (sw *SignalWatcher) Close() {
	close(sw.done)
	if sw.watcher != nil {
		sw.watcher.Close()
	}
}
