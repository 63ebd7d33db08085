// Package lockfile keeps a single `daycount watch` running per config
// directory. The lock holds "<pid>|<identity>" and is considered stale once
// that PID no longer belongs to a daycount process.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getPID          = os.Getpid
)

var ErrMalformed = errors.New("lockfile is malformed")

// HeldError reports a live watcher that owns the lock.
type HeldError struct {
	PID      int
	Identity string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("a watcher for %s is already running (PID %d)", e.Identity, e.PID)
}

type Lock struct {
	path string
	pid  int
}

// Path returns the watch lock location inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.WatchLockfileName)
}

// Acquire takes the watch lock for identity, replacing a stale one. It
// returns a *HeldError when another daycount process holds it.
func Acquire(configDir, identity string) (*Lock, error) {
	path := Path(configDir)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if pid, owner, err := read(path); err == nil {
		if alive(pid) {
			return nil, &HeldError{PID: pid, Identity: owner}
		}
		logger.Info("removing stale watch lock", "pid", pid, "identity", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	} else if !os.IsNotExist(err) {
		logger.Warn("replacing unreadable watch lock", "path", path, "error", err)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove malformed lockfile: %w", err)
		}
	}

	pid := getPID()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			// Another watcher won the race between our check and create.
			if pid, owner, rerr := read(path); rerr == nil {
				return nil, &HeldError{PID: pid, Identity: owner}
			}
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d|%s", pid, identity); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lock if this process still owns it.
func (l *Lock) Release() error {
	pid, _, err := read(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err == nil && pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Status reports the current holder, if any live one exists.
func Status(configDir string) (pid int, identity string, held bool) {
	pid, identity, err := read(Path(configDir))
	if err != nil || !alive(pid) {
		return 0, "", false
	}
	return pid, identity, true
}

func read(path string) (int, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}
	pidStr, identity, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok {
		return 0, "", ErrMalformed
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, "", fmt.Errorf("%w: invalid process ID", ErrMalformed)
	}
	return pid, identity, nil
}

func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
