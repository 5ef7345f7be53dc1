package disc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"cdripper/internal/services"
)

// CommandOutput holds both output streams of a finished command.
type CommandOutput struct {
	Stdout []byte
	Stderr []byte
}

// Executor abstracts command execution for the scanner.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (CommandOutput, error)
}

// commandExecutor executes commands using os/exec.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (CommandOutput, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return CommandOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

// ScanResult is the parsed TOC together with the raw diagnostic text it came
// from, kept so verbose callers can echo it.
type ScanResult struct {
	Device string
	TOC    *TOC
	Raw    string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) ScannerOption {
	return func(s *Scanner) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// WithTimeout bounds how long a single scan may run.
func WithTimeout(timeout time.Duration) ScannerOption {
	return func(s *Scanner) {
		s.timeout = timeout
	}
}

// Scanner reads the audio TOC from a drive with the paranoia query mode.
type Scanner struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewScanner constructs a Scanner for the provided extraction binary.
func NewScanner(binary string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		binary: strings.TrimSpace(binary),
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadTOC queries device and parses the table printed on the tool's stderr.
func (s *Scanner) ReadTOC(ctx context.Context, device string) (*ScanResult, error) {
	if s.binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "", "drive.paranoia_binary is empty", nil)
	}
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "", "device path required", nil)
	}

	scanCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.exec.Run(scanCtx, s.binary, []string{"-Q", "-d", device})
	raw := string(out.Stderr)
	if err != nil {
		if errors.Is(scanCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "scan", "read toc", fmt.Sprintf("%s did not answer within %s", device, s.timeout), err)
		}
		msg := "read toc from " + device
		type exitCoder interface{ ExitCode() int }
		var exitErr exitCoder
		if errors.As(err, &exitErr) {
			msg += fmt.Sprintf(" failed (exit status %d)", exitErr.ExitCode())
		}
		if detail := strings.TrimSpace(raw); detail != "" {
			msg += ": " + detail
		}
		return nil, services.Wrap(services.ErrExternalTool, "scan", "", msg, err)
	}

	toc, err := ParseTOC(raw)
	if err != nil {
		return nil, err
	}
	return &ScanResult{Device: device, TOC: toc, Raw: raw}, nil
}
