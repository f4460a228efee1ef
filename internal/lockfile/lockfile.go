// Package lockfile guards a timer's log files against concurrent sessions:
// at most one live session per title.
package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Lock is a PID file marking a live session for one timer.
type Lock struct {
	Path string
}

// New creates a Lock manager for the given path.
func New(path string) *Lock {
	return &Lock{Path: path}
}

// Acquire writes the current process's PID, refusing while another live
// process holds the lock. A lock left by a dead process, or one with
// unreadable content, is treated as stale and replaced.
func (l *Lock) Acquire() error {
	if pid, held := l.isHeld(); held {
		return fmt.Errorf("already being tracked by a live session (pid %d)", pid)
	}
	_ = os.Remove(l.Path)

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create lock file: %w", err)
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write lock file: %w", err)
	}
	return f.Close()
}

// Release removes the lock file. A missing file is not an error.
func (l *Lock) Release() error {
	if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Held reports the holder's PID when a live process owns the lock.
func (l *Lock) Held() (int, bool) {
	return l.isHeld()
}

// readPID reads the PID stored in the lock file.
func (l *Lock) readPID() (int, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid lock file content: %w", err)
	}
	return pid, nil
}
