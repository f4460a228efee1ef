//go:build !windows

package lockfile

import "syscall"

// isHeld reports whether the lock file exists and its process is alive.
func (l *Lock) isHeld() (int, bool) {
	pid, err := l.readPID()
	if err != nil {
		return 0, false
	}
	// Signal 0 tests if the process exists without sending a signal.
	err = syscall.Kill(pid, 0)
	return pid, err == nil
}
