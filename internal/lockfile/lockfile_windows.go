//go:build windows

package lockfile

import (
	"os"
	"syscall"
)

// isHeld reports whether the lock file exists and its process is alive.
// On Windows, FindProcess always succeeds; test with a zero signal.
func (l *Lock) isHeld() (int, bool) {
	pid, err := l.readPID()
	if err != nil {
		return 0, false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, false
	}
	err = proc.Signal(syscall.Signal(0))
	return pid, err == nil
}
