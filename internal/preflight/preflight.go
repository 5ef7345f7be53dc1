package preflight

import (
	"context"
	"fmt"
	"strings"

	"cdripper/internal/config"
	"cdripper/internal/deps"
	"cdripper/internal/encoding"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Advisory results are shown but never block a rip.
	Advisory bool
}

// MinFreeBytes is the space one uncompressed CD needs, rounded up.
const MinFreeBytes = 900 << 20

// RunAll executes every check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, statusResult(status))
	}
	results = append(results,
		CheckOutputDirectory("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Free space", cfg.Paths.OutputDir, MinFreeBytes),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDrive(cfg.Drive.Device),
		CheckMusicBrainz(ctx, cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent),
	)
	return results
}

// Failed returns the blocking results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed results into one message.
func Summarize(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}

// CheckSystemDeps evaluates external programs. The encoder for the default
// format is required; the others are optional so a FLAC-only setup passes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(Requirements(cfg, cfg.Encoding.DefaultFormat))
}

// Requirements lists the programs a rip in the given format needs.
func Requirements(cfg *config.Config, format string) []deps.Requirement {
	target, err := encoding.ParseFormat(format)
	if err != nil {
		target = encoding.FormatFLAC
	}
	reqs := []deps.Requirement{{
		Name:        "cdparanoia",
		Command:     cfg.Drive.ParanoiaBinary,
		Description: "Required for reading the TOC and extracting audio",
	}}
	encoders := []struct {
		format  encoding.Format
		name    string
		command string
	}{
		{encoding.FormatFLAC, "flac", cfg.Encoding.FLACBinary},
		{encoding.FormatMP3, "lame", cfg.Encoding.LAMEBinary},
		{encoding.FormatOGG, "oggenc", cfg.Encoding.OggEncBinary},
	}
	for _, enc := range encoders {
		reqs = append(reqs, deps.Requirement{
			Name:        enc.name,
			Command:     enc.command,
			Description: fmt.Sprintf("Encodes %s output", enc.format),
			Optional:    enc.format != target,
		})
	}
	reqs = append(reqs, deps.Requirement{
		Name:        "eject",
		Command:     "eject",
		Description: "Opens the tray after a rip",
		Optional:    !cfg.Drive.AutoEject,
	})
	return reqs
}

func statusResult(status deps.Status) Result {
	r := Result{Name: status.Name, Passed: status.Available, Advisory: status.Optional}
	switch {
	case status.Available:
		r.Detail = status.Path
	case status.Optional:
		r.Detail = status.Detail + " (optional)"
	default:
		r.Detail = status.Detail
	}
	return r
}
