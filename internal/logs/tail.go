package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

const defaultPollInterval = 250 * time.Millisecond

// Reader reads line-oriented log files.
type Reader struct {
	fs     afero.Fs
	poll   time.Duration
	filter string
	// watch enables inotify wakeups; only meaningful on the OS filesystem.
	watch bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithFs swaps the filesystem, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(r *Reader) {
		if fs != nil {
			r.fs = fs
			_, r.watch = fs.(*afero.OsFs)
		}
	}
}

// WithPollInterval sets how often Follow checks for new lines.
func WithPollInterval(d time.Duration) Option {
	return func(r *Reader) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithFilter keeps only lines containing substr, such as a job id.
func WithFilter(substr string) Option {
	return func(r *Reader) {
		r.filter = strings.TrimSpace(substr)
	}
}

// NewReader returns a Reader on the OS filesystem.
func NewReader(opts ...Option) *Reader {
	r := &Reader{fs: afero.NewOsFs(), poll: defaultPollInterval, watch: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Last returns up to limit trailing lines and the offset of the end of file.
// A missing file yields no lines and offset 0.
func (r *Reader) Last(path string, limit int) ([]string, int64, error) {
	file, err := r.open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := r.scan(file, func(line string) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines = append(lines, ring[(start+i)%limit])
	}
	return lines, offset, nil
}

// Since returns the lines written after offset and the new end offset.
func (r *Reader) Since(path string, offset int64) ([]string, int64, error) {
	file, err := r.open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	end, err := r.scan(file, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, offset + end, nil
}

// Follow calls fn for every line appended after offset until ctx ends.
// It returns nil when ctx is canceled. Writes wake it immediately when the
// directory can be watched; otherwise it polls.
func (r *Reader) Follow(ctx context.Context, path string, offset int64, fn func(string)) error {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	var changes <-chan fsnotify.Event
	if watcher := r.watcher(path); watcher != nil {
		defer watcher.Close()
		changes = watcher.Events
	}

	for {
		lines, next, err := r.Since(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			fn(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case _, ok := <-changes:
			if !ok {
				changes = nil
			}
		}
	}
}

// watcher watches the directory holding path so rotation is seen too.
// It returns nil when watching is unavailable.
func (r *Reader) watcher(path string) *fsnotify.Watcher {
	if !r.watch {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil
	}
	return w
}

func (r *Reader) open(path string) (afero.File, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	file, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// scan feeds every complete line to fn and returns the number of bytes
// consumed. A trailing partial line is left for the next read.
func (r *Reader) scan(file io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(file, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if r.filter != "" && !strings.Contains(line, r.filter) {
			continue
		}
		fn(line)
	}
}
