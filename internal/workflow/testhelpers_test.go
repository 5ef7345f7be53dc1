package workflow_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"cdripper/internal/config"
	"cdripper/internal/disc"
	"cdripper/internal/encoding"
	"cdripper/internal/history"
	"cdripper/internal/notifications"
	"cdripper/internal/ripping"
	"cdripper/internal/services/musicbrainz"
	"cdripper/internal/workflow"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths.OutputDir = root + "/music"
	cfg.Paths.StateDir = root + "/state"
	cfg.Paths.LogDir = root + "/logs"
	cfg.Drive.Device = "/dev/sr0"
	cfg.Drive.AutoEject = true
	return &cfg
}

func sampleTOC() *disc.TOC {
	return &disc.TOC{
		TrackCount:    2,
		LeadoutSector: 42000,
		Offsets: []disc.TrackOffset{
			{Number: 1, StartSector: 0},
			{Number: 2, StartSector: 21000},
		},
	}
}

type fakeScanner struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeScanner) ReadTOC(_ context.Context, device string) (*disc.ScanResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &disc.ScanResult{Device: device, TOC: sampleTOC(), Raw: "track 1.\nTOTAL 42000\n"}, nil
}

type fakeLooker struct {
	candidates []musicbrainz.ReleaseCandidate
	err        error
	gotFP      string
}

func (f *fakeLooker) Lookup(_ context.Context, fp string) ([]musicbrainz.ReleaseCandidate, error) {
	f.gotFP = fp
	return f.candidates, f.err
}

type fakeCovers struct {
	data  []byte
	err   error
	calls []string
}

func (f *fakeCovers) FetchFront(_ context.Context, releaseID string) ([]byte, error) {
	f.calls = append(f.calls, releaseID)
	return f.data, f.err
}

// fakeRipper reports each track as ripped. failAt fails that track number;
// block waits for release or cancellation before returning.
type fakeRipper struct {
	failAt  int
	block   chan struct{}
	started chan struct{}
	jobs    []ripping.RipJob
}

func (f *fakeRipper) Run(ctx context.Context, job ripping.RipJob, obs *ripping.Observer) ([]ripping.TrackResult, error) {
	f.jobs = append(f.jobs, job)
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var results []ripping.TrackResult
	for i, track := range job.Tracks {
		obs.TrackStarted(track, i+1, len(job.Tracks))
		if track.Number == f.failAt {
			res := ripping.TrackResult{TrackNumber: track.Number, ErrorDetail: "flac: encoder exploded"}
			results = append(results, res)
			obs.TrackFailed(res)
			return results, &ripping.ProcessError{Stage: ripping.StageEncode, Track: track.Number, Detail: "flac: encoder exploded"}
		}
		res := ripping.TrackResult{TrackNumber: track.Number, OutputPath: "/out/" + track.Title, Succeeded: true}
		results = append(results, res)
		obs.TrackCompleted(res)
		obs.Progress(ripping.Percent(i+1, len(job.Tracks)))
	}
	return results, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (f *fakeRecorder) Record(_ context.Context, entry history.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRecorder) all() []history.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]history.Entry(nil), f.entries...)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (f *fakeNotifier) Publish(_ context.Context, event notifications.Event, _ notifications.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotifier) all() []notifications.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifications.Event(nil), f.events...)
}

type fakeEjector struct {
	mu      sync.Mutex
	devices []string
}

func (f *fakeEjector) Eject(_ context.Context, device string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices = append(f.devices, device)
	return nil
}

type harness struct {
	cfg      *config.Config
	scanner  *fakeScanner
	looker   *fakeLooker
	covers   *fakeCovers
	ripper   *fakeRipper
	recorder *fakeRecorder
	notifier *fakeNotifier
	ejector  *fakeEjector
	manager  *workflow.Manager
}

func newHarness(t *testing.T, opts ...workflow.Option) *harness {
	t.Helper()
	h := &harness{
		cfg:      testConfig(t),
		scanner:  &fakeScanner{},
		looker:   &fakeLooker{},
		covers:   &fakeCovers{data: []byte("jpeg")},
		ripper:   &fakeRipper{},
		recorder: &fakeRecorder{},
		notifier: &fakeNotifier{},
		ejector:  &fakeEjector{},
	}
	all := []workflow.Option{
		workflow.WithTOCReader(h.scanner),
		workflow.WithLooker(h.looker),
		workflow.WithCoverFetcher(h.covers),
		workflow.WithRipper(h.ripper),
		workflow.WithHistory(h.recorder),
		workflow.WithNotifier(h.notifier),
		workflow.WithEjector(h.ejector),
		workflow.WithPreflight(nil),
	}
	h.manager = workflow.NewManager(h.cfg, nil, append(all, opts...)...)
	return h
}

func sampleRipJob() ripping.RipJob {
	return ripping.RipJob{
		Format: encoding.FormatFLAC,
		Artist: "Foo",
		Album:  "Bar",
		Tracks: []ripping.Track{{Number: 1, Title: "One"}, {Number: 2, Title: "Two"}},
	}
}

// collect drains the job's events and fails the test if the stream does not
// close in time.
func collect(t *testing.T, job *workflow.Job) []workflow.Event {
	t.Helper()
	var events []workflow.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-job.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for job events; got %d", len(events))
		}
	}
}

func terminal(t *testing.T, events []workflow.Event) workflow.Event {
	t.Helper()
	var found []workflow.Event
	for _, ev := range events {
		if ev.Kind.Terminal() {
			found = append(found, ev)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one terminal event, got %d", len(found))
	}
	if last := events[len(events)-1]; !last.Kind.Terminal() {
		t.Fatalf("expected terminal event last, got %s", last.Kind)
	}
	return found[0]
}

func progressValues(events []workflow.Event) []int {
	var out []int
	for _, ev := range events {
		if ev.Kind == workflow.EventProgress {
			out = append(out, ev.Percent)
		}
	}
	return out
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
