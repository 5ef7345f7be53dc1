package ripping

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandFunc builds an external command. It matches exec.CommandContext.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// diagnosticLimit bounds the stderr kept per process.
const diagnosticLimit = 8 << 10

// tailBuffer keeps the last limit bytes written to it. exec.Cmd writes to it
// from a single copying goroutine and it is only read after Wait returns.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= b.limit {
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		return n, nil
	}
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return strings.TrimSpace(string(b.buf))
}

// exitDetail describes a process failure, preferring captured stderr.
func exitDetail(err error, stderr *tailBuffer) string {
	if detail := stderr.String(); detail != "" {
		return detail
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
