// Package pidfile enforces single-daemon-per-host through a pid file.
// The tick engine's CAS claim already tolerates concurrent instances,
// but two daemons on one host sharing a sqlite file is never intended.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// Lock is a pid-file based single-instance lock.
type Lock struct {
	path string
}

// New returns a lock over the given path. Nothing is touched until
// Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Acquire writes our pid, failing when a live daemon already holds the
// file. Stale files left by a crashed daemon (dead pid, or garbage) are
// removed and reclaimed.
func (l *Lock) Acquire() error {
	if data, err := os.ReadFile(l.path); err == nil {
		pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && alive(pid) {
			return fmt.Errorf("burnrated already running (pid %d, %s)", pid, l.path)
		}
		_ = os.Remove(l.path)
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file %s: %w", l.path, err)
	}
	return nil
}

// Release removes the pid file. A missing file is not an error: a
// double release should be harmless.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file %s: %w", l.path, err)
	}
	return nil
}

// alive probes a pid with signal 0. EPERM means the process exists but
// belongs to someone else, so it still counts as running.
func alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}
