package ripping_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdripper/internal/encoding"
	"cdripper/internal/ripping"
)

// trackBytes is larger than a pipe buffer so the extractor blocks unless the
// encoder is reading concurrently.
const trackBytes = 256 << 10

type invocation struct {
	name string
	args []string
}

type fakeTools struct {
	mu    sync.Mutex
	calls []invocation
	mode  func(name string, args []string) string
}

func (f *fakeTools) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	f.mu.Lock()
	f.calls = append(f.calls, invocation{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()
	cmd := exec.CommandContext(ctx, os.Args[0], append([]string{"-test.run=TestHelperProcess", "--"}, args...)...)
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RIP_HELPER_MODE="+f.mode(name, args))
	return cmd
}

func (f *fakeTools) invocations(name string) []invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []invocation
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func defaultModes(name string, args []string) string {
	if name == "cdparanoia" {
		return "extract"
	}
	return "encode"
}

func fiveTrackJob(root string) ripping.RipJob {
	return ripping.RipJob{
		DevicePath: "/dev/sr0",
		Format:     encoding.FormatFLAC,
		OutputRoot: root,
		Artist:     "Foo/Bar",
		Album:      "Baz",
		Year:       "1999",
		Tracks: []ripping.Track{
			{Number: 1, Title: "Title: One"},
			{Number: 2, Title: "Two"},
			{Number: 3, Title: "Three"},
			{Number: 4, Title: "Four"},
			{Number: 5, Title: "Five"},
		},
	}
}

type recorder struct {
	started   []int
	completed []ripping.TrackResult
	failed    []ripping.TrackResult
	progress  []int
}

func (r *recorder) observer() *ripping.Observer {
	return &ripping.Observer{
		TrackStarted:   func(t ripping.Track, _, _ int) { r.started = append(r.started, t.Number) },
		TrackCompleted: func(res ripping.TrackResult) { r.completed = append(r.completed, res) },
		TrackFailed:    func(res ripping.TrackResult) { r.failed = append(r.failed, res) },
		Progress:       func(p int) { r.progress = append(r.progress, p) },
	}
}

func TestRunStreamsEveryTrackThroughEncoder(t *testing.T) {
	root := t.TempDir()
	tools := &fakeTools{mode: defaultModes}
	pipeline := ripping.NewPipeline("cdparanoia", encoding.NewRegistry(encoding.DefaultSettings()), ripping.WithCommandFunc(tools.command))

	job := fiveTrackJob(root)
	job.Tracks = job.Tracks[:2]
	rec := &recorder{}
	results, err := pipeline.Run(context.Background(), job, rec.observer())
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := filepath.Join(root, "FooBar", "Baz", "01. Title One.flac")
	assert.Equal(t, first, results[0].OutputPath)
	for _, res := range results {
		assert.True(t, res.Succeeded)
		info, statErr := os.Stat(res.OutputPath)
		require.NoError(t, statErr)
		assert.EqualValues(t, trackBytes, info.Size())
	}
	assert.Equal(t, []int{1, 2}, rec.started)
	assert.Equal(t, []int{50, 100}, rec.progress)
	assert.Empty(t, rec.failed)

	extracts := tools.invocations("cdparanoia")
	require.Len(t, extracts, 2)
	assert.Equal(t, []string{"-q", "-d", "/dev/sr0", "1", "-"}, extracts[0].args)
	encodes := tools.invocations("flac")
	require.Len(t, encodes, 2)
	assert.Contains(t, encodes[1].args, "TRACKNUMBER=2")
	assert.Contains(t, encodes[1].args, "DATE=1999")
}

func TestRunAbortsAfterEncoderFailure(t *testing.T) {
	root := t.TempDir()
	tools := &fakeTools{mode: func(name string, args []string) string {
		if name == "flac" && slices.Contains(args, "TRACKNUMBER=3") {
			return "encode-fail"
		}
		return defaultModes(name, args)
	}}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithCommandFunc(tools.command))

	rec := &recorder{}
	results, err := pipeline.Run(context.Background(), fiveTrackJob(root), rec.observer())
	require.Error(t, err)

	var procErr *ripping.ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, ripping.StageEncode, procErr.Stage)
	assert.Equal(t, 3, procErr.Track)
	assert.Contains(t, procErr.Detail, "encoder exploded")

	require.Len(t, results, 3)
	for _, res := range results[:2] {
		assert.True(t, res.Succeeded)
		assert.FileExists(t, res.OutputPath)
	}
	assert.False(t, results[2].Succeeded)
	assert.Contains(t, results[2].ErrorDetail, "encoder exploded")
	assert.NoFileExists(t, results[2].OutputPath)

	assert.Equal(t, []int{1, 2, 3}, rec.started)
	assert.Equal(t, []int{20, 40}, rec.progress)
	require.Len(t, rec.failed, 1)
	assert.Len(t, tools.invocations("cdparanoia"), 3)
	for _, c := range tools.invocations("flac") {
		assert.NotContains(t, c.args, "TRACKNUMBER=4")
		assert.NotContains(t, c.args, "TRACKNUMBER=5")
	}
}

func TestRunReportsExtractorFailure(t *testing.T) {
	root := t.TempDir()
	tools := &fakeTools{mode: func(name string, args []string) string {
		if name == "cdparanoia" {
			return "extract-fail"
		}
		return "encode"
	}}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithCommandFunc(tools.command))

	results, err := pipeline.Run(context.Background(), fiveTrackJob(root), nil)
	var procErr *ripping.ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, ripping.StageExtract, procErr.Stage)
	assert.Equal(t, 1, procErr.Track)
	assert.Contains(t, procErr.Detail, "drive read error")
	require.Len(t, results, 1)
	assert.NoFileExists(t, results[0].OutputPath)
}

func TestRunWAVExtractsDirectlyToFile(t *testing.T) {
	root := t.TempDir()
	tools := &fakeTools{mode: defaultModes}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithCommandFunc(tools.command))

	job := fiveTrackJob(root)
	job.Format = encoding.FormatWAV
	job.DiscNumber = 2
	job.Tracks = job.Tracks[:1]
	results, err := pipeline.Run(context.Background(), job, nil)
	require.NoError(t, err)

	want := filepath.Join(root, "FooBar", "Baz", "Disc 2", "01. Title One.wav")
	require.Len(t, results, 1)
	assert.Equal(t, want, results[0].OutputPath)
	assert.FileExists(t, want)

	extracts := tools.invocations("cdparanoia")
	require.Len(t, extracts, 1)
	assert.Equal(t, []string{"-q", "-d", "/dev/sr0", "1", want}, extracts[0].args)
	assert.Len(t, tools.calls, 1)
}

func TestRunCancellationKillsProcessPair(t *testing.T) {
	root := t.TempDir()
	tools := &fakeTools{mode: func(name string, args []string) string {
		if name == "cdparanoia" {
			return "hang"
		}
		return "encode"
	}}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithCommandFunc(tools.command))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	obs := &ripping.Observer{TrackStarted: func(ripping.Track, int, int) {
		time.AfterFunc(200*time.Millisecond, cancel)
	}}

	done := make(chan error, 1)
	go func() {
		_, err := pipeline.Run(ctx, fiveTrackJob(root), obs)
		done <- err
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}
}

func TestRunValidatesBeforeAnySideEffect(t *testing.T) {
	fs := afero.NewMemMapFs()
	pipeline := ripping.NewPipeline("cdparanoia", nil,
		ripping.WithFs(fs),
		ripping.WithCommandFunc(func(context.Context, string, ...string) *exec.Cmd {
			t.Fatal("no process should start for an invalid job")
			return nil
		}),
	)

	job := fiveTrackJob("/music")
	job.Artist = " "
	job.CoverArt = []byte("jpeg")
	_, err := pipeline.Run(context.Background(), job, nil)
	require.ErrorIs(t, err, ripping.ErrInvalidJob)

	exists, statErr := afero.DirExists(fs, "/music")
	require.NoError(t, statErr)
	assert.False(t, exists)
}

func TestRunPersistsCoverArtBeforeTracks(t *testing.T) {
	fs := afero.NewMemMapFs()
	tools := &fakeTools{mode: func(name string, args []string) string {
		if name == "cdparanoia" {
			return "extract"
		}
		return "drain"
	}}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithFs(fs), ripping.WithCommandFunc(tools.command))

	job := fiveTrackJob("/music")
	job.Tracks = job.Tracks[:2]
	job.DiscNumber = 1
	job.DiscCount = 2
	job.CoverArt = []byte("jpeg-bytes")
	_, err := pipeline.Run(context.Background(), job, nil)
	require.NoError(t, err)

	coverPath := filepath.Join("/music", "FooBar", "Baz", "Disc 1", ripping.CoverFileName)
	data, err := afero.ReadFile(fs, coverPath)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	for _, c := range tools.invocations("flac") {
		assert.Contains(t, c.args, "--picture="+coverPath)
		assert.Contains(t, c.args, "DISCNUMBER=1")
		assert.Contains(t, c.args, "TOTALDISCS=2")
	}
}

func TestRunMP3PassesOutputAsLastArgument(t *testing.T) {
	fs := afero.NewMemMapFs()
	tools := &fakeTools{mode: func(name string, args []string) string {
		if name == "cdparanoia" {
			return "extract"
		}
		return "drain"
	}}
	pipeline := ripping.NewPipeline("cdparanoia", nil, ripping.WithFs(fs), ripping.WithCommandFunc(tools.command))

	job := fiveTrackJob("/music")
	job.Format = encoding.FormatMP3
	job.Tracks = []ripping.Track{{Number: 7}}
	results, err := pipeline.Run(context.Background(), job, nil)
	require.NoError(t, err)

	want := filepath.Join("/music", "FooBar", "Baz", "07. Track 07.mp3")
	assert.Equal(t, want, results[0].OutputPath)
	encodes := tools.invocations("lame")
	require.Len(t, encodes, 1)
	assert.Equal(t, want, encodes[0].args[len(encodes[0].args)-1])
	assert.Contains(t, encodes[0].args, "Track 07")
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	switch os.Getenv("RIP_HELPER_MODE") {
	case "extract":
		payload := bytes.Repeat([]byte{0x5a}, trackBytes)
		target := args[len(args)-1]
		if target == "-" {
			if _, err := os.Stdout.Write(payload); err != nil {
				os.Exit(2)
			}
			os.Exit(0)
		}
		if err := os.WriteFile(target, payload, 0o644); err != nil {
			os.Exit(2)
		}
		os.Exit(0)
	case "extract-fail":
		fmt.Fprintln(os.Stderr, "drive read error at sector 1234")
		os.Exit(3)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "encode":
		output := ""
		for i, arg := range args {
			if arg == "-o" && i+1 < len(args) {
				output = args[i+1]
			}
		}
		f, err := os.Create(output)
		if err != nil {
			os.Exit(2)
		}
		if _, err := io.Copy(f, os.Stdin); err != nil {
			os.Exit(2)
		}
		if err := f.Close(); err != nil {
			os.Exit(2)
		}
		os.Exit(0)
	case "drain":
		_, _ = io.Copy(io.Discard, os.Stdin)
		os.Exit(0)
	case "encode-fail":
		_, _ = io.CopyN(io.Discard, os.Stdin, 1024)
		fmt.Fprintln(os.Stderr, "flac: encoder exploded")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
