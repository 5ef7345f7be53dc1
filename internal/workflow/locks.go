package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"cdripper/internal/textutil"
)

// ErrJobAlreadyRunning reports a device that is already claimed by a job.
var ErrJobAlreadyRunning = errors.New("job already running for device")

// deviceLocks grants one job per device. The in-process map rejects a second
// job from the same Manager; the lock file rejects jobs from other processes.
type deviceLocks struct {
	dir    string
	mu     sync.Mutex
	active map[string]string
}

func newDeviceLocks(dir string) *deviceLocks {
	return &deviceLocks{dir: strings.TrimSpace(dir), active: make(map[string]string)}
}

func deviceKey(device string) string {
	return filepath.Clean(strings.TrimSpace(device))
}

// LockPath returns the lock file guarding device, or "" when no directory is
// configured.
func (l *deviceLocks) LockPath(device string) string {
	if l.dir == "" {
		return ""
	}
	return filepath.Join(l.dir, textutil.SanitizeToken(deviceKey(device))+".lock")
}

func (l *deviceLocks) acquire(device, jobID string) (func(), error) {
	key := deviceKey(device)

	l.mu.Lock()
	if holder, busy := l.active[key]; busy {
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is held by job %s", ErrJobAlreadyRunning, key, holder)
	}
	l.active[key] = jobID
	l.mu.Unlock()

	release := func() {
		l.mu.Lock()
		delete(l.active, key)
		l.mu.Unlock()
	}

	path := l.LockPath(key)
	if path == "" {
		return release, nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		release()
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fileLock := flock.New(path)
	ok, err := fileLock.TryLock()
	if err != nil {
		release()
		return nil, fmt.Errorf("acquire device lock: %w", err)
	}
	if !ok {
		release()
		return nil, fmt.Errorf("%w: %s is held by another cdrip process (%s)", ErrJobAlreadyRunning, key, path)
	}
	return func() {
		_ = fileLock.Unlock()
		release()
	}, nil
}
