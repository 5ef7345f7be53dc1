package ripping

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"cdripper/internal/encoding"
	"cdripper/internal/services"
)

func validJob() RipJob {
	return RipJob{
		DevicePath: "/dev/sr0",
		Format:     encoding.FormatFLAC,
		OutputRoot: "/music",
		Artist:     "Foo/Bar",
		Album:      "Baz",
		Tracks:     []Track{{Number: 1, Title: "Title: One"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RipJob)
		want   string
	}{
		{name: "valid", mutate: func(*RipJob) {}},
		{name: "missing artist", mutate: func(j *RipJob) { j.Artist = "" }, want: "artist is required"},
		{name: "missing album", mutate: func(j *RipJob) { j.Album = "  " }, want: "album is required"},
		{name: "no tracks", mutate: func(j *RipJob) { j.Tracks = nil }, want: "at least one track"},
		{name: "dot album", mutate: func(j *RipJob) { j.Album = ".." }, want: "album has no characters"},
		{name: "unknown format", mutate: func(j *RipJob) { j.Format = "aac" }, want: "unsupported format"},
		{name: "duplicate track", mutate: func(j *RipJob) { j.Tracks = append(j.Tracks, Track{Number: 1}) }, want: "listed twice"},
		{name: "zero track", mutate: func(j *RipJob) { j.Tracks = []Track{{Number: 0}} }, want: "must be positive"},
		{name: "missing device", mutate: func(j *RipJob) { j.DevicePath = "" }, want: "device path"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			job := validJob()
			tc.mutate(&job)
			err := job.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidJob) || !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected invalid job error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestOutputPathScenario(t *testing.T) {
	job := validJob()
	got := filepath.Join(job.OutputDir(), TrackFileName(job.Tracks[0], job.Format))
	want := filepath.Join("/music", "FooBar", "Baz", "01. Title One.flac")
	if got != want {
		t.Fatalf("output path = %q, want %q", got, want)
	}

	job.DiscNumber = 2
	if dir := job.OutputDir(); dir != filepath.Join("/music", "FooBar", "Baz", "Disc 2") {
		t.Fatalf("unexpected disc dir %q", dir)
	}
}

func TestTrackFileNameFallsBackForUnusableTitle(t *testing.T) {
	if got := TrackFileName(Track{Number: 12, Title: "???"}, encoding.FormatOGG); got != "12. Track 12.ogg" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := TrackFileName(Track{Number: 3, Title: "AC/DC"}, encoding.FormatMP3); got != "03. ACDC.mp3" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestPercentIsFlooredAndMonotonic(t *testing.T) {
	for total := 1; total <= 37; total++ {
		prev := 0
		for i := 1; i <= total; i++ {
			got := Percent(i, total)
			if want := i * 100 / total; got != want {
				t.Fatalf("Percent(%d,%d) = %d, want %d", i, total, got, want)
			}
			if got < prev {
				t.Fatalf("progress went backwards at %d/%d", i, total)
			}
			if i < total && got == 100 {
				t.Fatalf("reached 100 before the last track at %d/%d", i, total)
			}
			prev = got
		}
		if prev != 100 {
			t.Fatalf("final progress for %d tracks = %d", total, prev)
		}
	}
}

func TestTailBufferKeepsLastBytes(t *testing.T) {
	buf := newTailBuffer(8)
	_, _ = buf.Write([]byte("hello "))
	_, _ = buf.Write([]byte("world"))
	if got := buf.String(); got != "lo world" {
		t.Fatalf("tail = %q", got)
	}
	_, _ = buf.Write([]byte("0123456789abcdef"))
	if got := buf.String(); got != "89abcdef" {
		t.Fatalf("tail = %q", got)
	}
}

func TestProcessErrorMatchesExternalTool(t *testing.T) {
	err := error(&ProcessError{Stage: StageEncode, Track: 3, Detail: "boom", Err: errors.New("exit status 1")})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker")
	}
	if !strings.Contains(err.Error(), "encode failed on track 3") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
