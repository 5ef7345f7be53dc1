package ripping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"cdripper/internal/encoding"
	"cdripper/internal/logging"
	"cdripper/internal/services"
)

// DefaultExtractor is the cdparanoia executable name.
const DefaultExtractor = "cdparanoia"

// Pipeline rips and encodes the tracks of a RipJob.
type Pipeline struct {
	fs        afero.Fs
	extractor string
	encoders  *encoding.Registry
	command   CommandFunc
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFs overrides the filesystem used for directories, cover art, and
// cleanup of partial output.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// WithCommandFunc overrides how external processes are built.
func WithCommandFunc(fn CommandFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.command = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline constructs a pipeline that extracts with the given binary and
// encodes through encoders.
func NewPipeline(extractor string, encoders *encoding.Registry, opts ...Option) *Pipeline {
	if strings.TrimSpace(extractor) == "" {
		extractor = DefaultExtractor
	}
	if encoders == nil {
		encoders = encoding.NewRegistry(encoding.DefaultSettings())
	}
	p := &Pipeline{
		fs:        afero.NewOsFs(),
		extractor: extractor,
		encoders:  encoders,
		command:   exec.CommandContext,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "ripping")
	return p
}

// Run executes job. The returned results cover every attempted track in
// order; on failure the last entry is the failed track and the error is a
// *ProcessError (or an ErrInvalidJob validation error when nothing started).
func (p *Pipeline) Run(ctx context.Context, job RipJob, obs *Observer) ([]TrackResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	format, _ := encoding.ParseFormat(string(job.Format))
	var strategy encoding.Strategy
	if format.Compressed() {
		s, ok := p.encoders.Lookup(format)
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "ripping", "select encoder", fmt.Sprintf("no encoder registered for %s", format), ErrInvalidJob)
		}
		strategy = s
	}

	logger := logging.WithContext(ctx, p.logger)
	dir := job.OutputDir()
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ripping", "create output dir", fmt.Sprintf("cannot create %q", dir), err)
	}
	coverPath := ""
	if len(job.CoverArt) > 0 {
		coverPath = filepath.Join(dir, CoverFileName)
		if err := afero.WriteFile(p.fs, coverPath, job.CoverArt, 0o644); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "ripping", "write cover art", fmt.Sprintf("cannot write %q", coverPath), err)
		}
		logger.Debug("cover art written", logging.String("path", coverPath), logging.Int("bytes", len(job.CoverArt)))
	}

	total := len(job.Tracks)
	logger.Info("rip started",
		logging.String("output_dir", dir),
		logging.String("format", format.String()),
		logging.Int("tracks", total),
	)
	results := make([]TrackResult, 0, total)
	for i, track := range job.Tracks {
		obs.trackStarted(track, i+1, total)
		output := filepath.Join(dir, TrackFileName(track, format))
		trackLogger := logger.With(logging.Int("track", track.Number))
		trackLogger.Info("ripping track", logging.String("title", track.DisplayTitle()), logging.String("output_path", output))

		var err error
		if strategy == nil {
			err = p.extractToFile(ctx, job.DevicePath, track.Number, output)
		} else {
			tags := encoding.Tags{
				Artist:       job.Artist,
				Album:        job.Album,
				Title:        track.DisplayTitle(),
				TrackNumber:  track.Number,
				Year:         strings.TrimSpace(job.Year),
				DiscNumber:   job.DiscNumber,
				DiscCount:    job.DiscCount,
				CoverArtPath: coverPath,
			}
			err = p.extractAndEncode(ctx, job.DevicePath, track.Number, strategy, tags, output)
		}
		if err != nil {
			p.removePartial(output, trackLogger)
			result := TrackResult{TrackNumber: track.Number, OutputPath: output, ErrorDetail: failureDetail(err)}
			results = append(results, result)
			obs.trackFailed(result)
			logging.ErrorWithContext(trackLogger, "track failed", "rip_track_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the drive and the disc surface, then rip again"),
			)
			return results, err
		}

		result := TrackResult{TrackNumber: track.Number, OutputPath: output, Succeeded: true}
		results = append(results, result)
		obs.trackCompleted(result)
		percent := Percent(i+1, total)
		obs.progress(percent)
		trackLogger.Info("track complete", logging.Int("percent", percent))
	}
	logger.Info("rip finished", logging.String("output_dir", dir), logging.Int("tracks", total))
	return results, nil
}

func extractArgs(device string, track int, output string) []string {
	return []string{"-q", "-d", device, strconv.Itoa(track), output}
}

// extractToFile lets the extractor write the final WAV file.
func (p *Pipeline) extractToFile(ctx context.Context, device string, track int, output string) error {
	stderr := newTailBuffer(diagnosticLimit)
	cmd := p.command(ctx, p.extractor, extractArgs(device, track, output)...)
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return processFailure(ctx, StageExtract, track, err, stderr)
	}
	return nil
}

// extractAndEncode streams extractor stdout into the encoder's stdin. Both
// processes run concurrently; the encoder is waited on first and the
// extractor is killed if the encoder fails.
func (p *Pipeline) extractAndEncode(ctx context.Context, device string, track int, strategy encoding.Strategy, tags encoding.Tags, output string) error {
	args, err := strategy.Args(tags, output)
	if err != nil {
		return &ProcessError{Stage: StageEncode, Track: track, Detail: "invalid encoder arguments", Err: err}
	}

	extractStderr := newTailBuffer(diagnosticLimit)
	extract := p.command(ctx, p.extractor, extractArgs(device, track, "-")...)
	extract.Stderr = extractStderr
	audio, err := extract.StdoutPipe()
	if err != nil {
		return &ProcessError{Stage: StageExtract, Track: track, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	encodeStderr := newTailBuffer(diagnosticLimit)
	encode := p.command(ctx, strategy.Binary(), args...)
	encode.Stdin = audio
	encode.Stderr = encodeStderr

	if err := extract.Start(); err != nil {
		return processFailure(ctx, StageExtract, track, err, extractStderr)
	}
	if err := encode.Start(); err != nil {
		_ = extract.Process.Kill()
		_ = extract.Wait()
		return processFailure(ctx, StageEncode, track, err, encodeStderr)
	}
	// The encoder holds its own copy of the read end.
	_ = audio.Close()

	encodeErr := encode.Wait()
	if encodeErr != nil {
		_ = extract.Process.Kill()
	}
	extractErr := extract.Wait()
	switch {
	case encodeErr != nil:
		return processFailure(ctx, StageEncode, track, encodeErr, encodeStderr)
	case extractErr != nil:
		return processFailure(ctx, StageExtract, track, extractErr, extractStderr)
	}
	return nil
}

func processFailure(ctx context.Context, stage string, track int, err error, stderr *tailBuffer) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		detail := "cancelled"
		if captured := stderr.String(); captured != "" {
			detail += ": " + captured
		}
		return &ProcessError{Stage: stage, Track: track, Detail: detail, Err: ctxErr}
	}
	return &ProcessError{Stage: stage, Track: track, Detail: exitDetail(err, stderr), Err: err}
}

func (p *Pipeline) removePartial(path string, logger *slog.Logger) {
	if err := p.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove partial output", "rip_cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a truncated file remains in the album directory"),
		)
	}
}

func failureDetail(err error) string {
	var procErr *ProcessError
	if errors.As(err, &procErr) && procErr.Detail != "" {
		return procErr.Detail
	}
	return err.Error()
}
