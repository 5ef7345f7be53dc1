package workflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"cdripper/internal/config"
	"cdripper/internal/disc"
	"cdripper/internal/encoding"
	"cdripper/internal/history"
	"cdripper/internal/logging"
	"cdripper/internal/notifications"
	"cdripper/internal/ripping"
	"cdripper/internal/services"
	"cdripper/internal/services/coverart"
	"cdripper/internal/services/musicbrainz"
)

// TOCReader reads the table of contents from a drive.
type TOCReader interface {
	ReadTOC(ctx context.Context, device string) (*disc.ScanResult, error)
}

// Ripper runs a validated rip job.
type Ripper interface {
	Run(ctx context.Context, job ripping.RipJob, obs *ripping.Observer) ([]ripping.TrackResult, error)
}

// Recorder persists finished jobs.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// LookerFactory builds a lookup client. observer is non-nil for verbose jobs
// and must receive every raw response.
type LookerFactory func(observer musicbrainz.ResponseObserver) musicbrainz.Looker

// PreflightFunc checks that a rip in format can run.
type PreflightFunc func(ctx context.Context, format encoding.Format) error

// Manager starts lookup and rip jobs and enforces one job per device.
type Manager struct {
	cfg       *config.Config
	logger    *slog.Logger
	scanner   TOCReader
	newLooker LookerFactory
	covers    coverart.Fetcher
	ripper    Ripper
	history   Recorder
	notifier  notifications.Service
	ejector   disc.Ejector
	preflight PreflightFunc
	locks     *deviceLocks
	newID     func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithTOCReader overrides the drive scanner.
func WithTOCReader(r TOCReader) Option {
	return func(m *Manager) {
		if r != nil {
			m.scanner = r
		}
	}
}

// WithLooker uses a fixed lookup client for every job.
func WithLooker(l musicbrainz.Looker) Option {
	return func(m *Manager) {
		if l != nil {
			m.newLooker = func(musicbrainz.ResponseObserver) musicbrainz.Looker { return l }
		}
	}
}

// WithCoverFetcher overrides the cover art client. A nil fetcher disables
// cover downloads.
func WithCoverFetcher(f coverart.Fetcher) Option {
	return func(m *Manager) {
		m.covers = f
	}
}

// WithRipper overrides the rip pipeline.
func WithRipper(r Ripper) Option {
	return func(m *Manager) {
		if r != nil {
			m.ripper = r
		}
	}
}

// WithHistory records every finished job.
func WithHistory(r Recorder) Option {
	return func(m *Manager) {
		m.history = r
	}
}

// WithNotifier overrides the notification service.
func WithNotifier(n notifications.Service) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithEjector overrides the disc ejector.
func WithEjector(e disc.Ejector) Option {
	return func(m *Manager) {
		if e != nil {
			m.ejector = e
		}
	}
}

// WithPreflight overrides the dependency check run before each rip. A nil
// func skips the check.
func WithPreflight(fn PreflightFunc) Option {
	return func(m *Manager) {
		m.preflight = fn
	}
}

// WithLockDir overrides the directory holding device lock files. An empty
// dir disables cross-process locking.
func WithLockDir(dir string) Option {
	return func(m *Manager) {
		m.locks = newDeviceLocks(dir)
	}
}

// WithIDGenerator overrides job id generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager wires the production collaborators from cfg.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		scanner:  disc.NewScanner(cfg.Drive.ParanoiaBinary, disc.WithTimeout(cfg.ScanTimeout())),
		ripper:   ripping.NewPipeline(cfg.Drive.ParanoiaBinary, NewEncoderRegistry(cfg), ripping.WithLogger(logger)),
		notifier: notifications.NewService(cfg),
		ejector:  disc.NewEjector(),
		locks:    newDeviceLocks(cfg.Paths.StateDir),
		newID:    uuid.NewString,
	}
	m.newLooker = func(observer musicbrainz.ResponseObserver) musicbrainz.Looker {
		clientOpts := []musicbrainz.Option{musicbrainz.WithLogger(logging.NewComponentLogger(logger, "musicbrainz"))}
		if observer != nil {
			clientOpts = append(clientOpts, musicbrainz.WithResponseObserver(observer))
		}
		return musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent, cfg.LookupTimeout(), clientOpts...)
	}
	if cfg.CoverArt.Enabled {
		m.covers = coverart.New(cfg.CoverArt.BaseURL, cfg.CoverArt.Size, cfg.CoverArtTimeout(),
			coverart.WithUserAgent(cfg.MusicBrainz.UserAgent))
	}
	m.preflight = m.checkDependencies
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewEncoderRegistry builds the encoder strategies configured in cfg.
func NewEncoderRegistry(cfg *config.Config) *encoding.Registry {
	return encoding.NewRegistry(encoding.Settings{
		FLACBinary:      cfg.Encoding.FLACBinary,
		FLACCompression: cfg.Encoding.FLACCompression,
		ReplayGain:      cfg.Encoding.ReplayGain,
		LAMEBinary:      cfg.Encoding.LAMEBinary,
		MP3Bitrate:      cfg.Encoding.MP3Bitrate,
		OggEncBinary:    cfg.Encoding.OggEncBinary,
		OggQuality:      cfg.Encoding.OggQuality,
	})
}

// LockPath exposes the lock file guarding device.
func (m *Manager) LockPath(device string) string {
	return m.locks.LockPath(device)
}

// start claims device and launches run on a new goroutine. The claim is
// released after the terminal event is emitted.
func (m *Manager) start(ctx context.Context, kind Kind, device string, verbose bool, run func(ctx context.Context, job *Job, logger *slog.Logger) (Result, error)) (*Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	device = strings.TrimSpace(device)
	if device == "" {
		device = m.cfg.Drive.Device
	}
	id := m.newID()
	release, err := m.locks.acquire(device, id)
	if err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	jobCtx = services.WithJobID(jobCtx, id)
	jobCtx = services.WithDevice(jobCtx, device)
	job := newJob(id, kind, device, cancel)

	logger := m.jobLogger(jobCtx, job, verbose)
	go func() {
		defer cancel()
		result, runErr := run(jobCtx, job, logger)
		release()
		job.finish(result, runErr)
	}()
	return job, nil
}

// jobLogger writes to the manager logger and mirrors every record into the
// job's event stream as a log event.
func (m *Manager) jobLogger(ctx context.Context, job *Job, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	lines := logging.NewLineHandler(level, func(lvl slog.Level, line string) {
		job.emit(Event{Kind: EventLog, Level: lvl, Message: line})
	})
	base := logging.WithContext(ctx, m.logger.With(logging.String("job_kind", string(job.Kind))))
	return logging.TeeLogger(base, lines)
}

// Eject opens the tray of device unless a job holds it.
func (m *Manager) Eject(ctx context.Context, device string) error {
	device = strings.TrimSpace(device)
	if device == "" {
		device = m.cfg.Drive.Device
	}
	release, err := m.locks.acquire(device, "eject")
	if err != nil {
		return err
	}
	defer release()
	return m.ejector.Eject(ctx, device)
}
