package disc_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cdripper/internal/disc"
	"cdripper/internal/services"
)

type stubExec struct {
	out disc.CommandOutput
	err error
}

func (s stubExec) Run(ctx context.Context, binary string, args []string) (disc.CommandOutput, error) {
	return s.out, s.err
}

type captureExec struct {
	out      disc.CommandOutput
	binary   string
	lastArgs []string
}

func (c *captureExec) Run(ctx context.Context, binary string, args []string) (disc.CommandOutput, error) {
	c.binary = binary
	c.lastArgs = append([]string(nil), args...)
	return c.out, nil
}

type failingExitError struct {
	code int
}

func (f failingExitError) Error() string { return "cdparanoia failed" }
func (f failingExitError) ExitCode() int { return f.code }

func TestScannerReadsTOCFromStderr(t *testing.T) {
	capture := &captureExec{out: disc.CommandOutput{
		Stdout: []byte("  9. 1 [x] 999 [y]\nTOTAL 5\n"),
		Stderr: []byte(sampleQuery),
	}}
	scanner := disc.NewScanner("cdparanoia", disc.WithExecutor(capture))
	result, err := scanner.ReadTOC(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("ReadTOC returned error: %v", err)
	}
	if result.TOC.TrackCount != 3 {
		t.Fatalf("expected toc parsed from stderr, got %+v", result.TOC)
	}
	if result.Raw != sampleQuery {
		t.Fatalf("expected raw stderr to be retained")
	}
	want := []string{"-Q", "-d", "/dev/sr0"}
	if capture.binary != "cdparanoia" || strings.Join(capture.lastArgs, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected invocation: %s %v", capture.binary, capture.lastArgs)
	}
}

func TestScannerPropagatesParseErrors(t *testing.T) {
	scanner := disc.NewScanner("cdparanoia", disc.WithExecutor(stubExec{out: disc.CommandOutput{Stderr: []byte("no disc\n")}}))
	_, err := scanner.ReadTOC(context.Background(), "/dev/sr0")
	if !errors.Is(err, disc.ErrNoAudioTracks) {
		t.Fatalf("expected ErrNoAudioTracks, got %v", err)
	}
}

func TestScannerIncludesDiagnosticsOnFailure(t *testing.T) {
	scanner := disc.NewScanner("cdparanoia", disc.WithExecutor(stubExec{
		out: disc.CommandOutput{Stderr: []byte("Unable to open disc.  Is there an audio CD in the drive?")},
		err: failingExitError{code: 1},
	}))
	_, err := scanner.ReadTOC(context.Background(), "/dev/sr0")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "exit status 1") || !strings.Contains(msg, "Unable to open disc") {
		t.Fatalf("expected exit status and diagnostics in message, got %q", msg)
	}
}

func TestScannerNeedsBinaryAndDevice(t *testing.T) {
	if _, err := disc.NewScanner("", disc.WithExecutor(stubExec{})).ReadTOC(context.Background(), "/dev/sr0"); err == nil {
		t.Fatal("expected error for missing binary")
	}
	if _, err := disc.NewScanner("cdparanoia", disc.WithExecutor(stubExec{})).ReadTOC(context.Background(), " "); err == nil {
		t.Fatal("expected error for missing device")
	}
}
