// Package workspace provides the isolated proposal workspace: a scoped
// temporary directory acquired for one workflow run and released on every exit
// path. Each run owns its workspace exclusively; concurrent invocations get
// independent directories.
package workspace

import (
	"fmt"
	"os"
	"sync"
)

// Workspace is a handle to an exclusively-owned temporary directory.
type Workspace struct {
	path string

	mu       sync.Mutex
	released bool
}

// Acquire creates a fresh temporary directory with the given name prefix.
// Callers must Release the workspace when done, typically via defer.
func Acquire(prefix string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate workspace: %w", err)
	}
	return &Workspace{path: dir}, nil
}

// Path returns the workspace root directory.
func (w *Workspace) Path() string {
	return w.path
}

// Release removes the workspace directory and everything beneath it. Releasing
// twice is a no-op, so both a deferred release and an explicit one on the
// failure path are safe.
func (w *Workspace) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return nil
	}
	w.released = true
	return os.RemoveAll(w.path)
}
