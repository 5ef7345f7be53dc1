package ripping

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cdripper/internal/encoding"
	"cdripper/internal/services"
	"cdripper/internal/textutil"
)

// ErrInvalidJob reports a rip job rejected before any side effect.
var ErrInvalidJob = errors.New("invalid rip job")

// CoverFileName is the fixed name cover art is persisted under.
const CoverFileName = "cover.jpg"

// Track is one entry of the album track list.
type Track struct {
	Number int    `json:"number" toml:"number"`
	Title  string `json:"title" toml:"title"`
}

// RipJob describes one album rip. Year, DiscNumber, DiscCount and CoverArt
// are optional.
type RipJob struct {
	DevicePath string
	Format     encoding.Format
	OutputRoot string
	Artist     string
	Album      string
	Year       string
	DiscNumber int
	DiscCount  int
	Tracks     []Track
	CoverArt   []byte
}

// TrackResult is the outcome of a single track.
type TrackResult struct {
	TrackNumber int    `json:"track_number"`
	OutputPath  string `json:"output_path"`
	Succeeded   bool   `json:"succeeded"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Validate checks the job without touching the filesystem.
func (j RipJob) Validate() error {
	var problems []string
	if strings.TrimSpace(j.DevicePath) == "" {
		problems = append(problems, "device path is required")
	}
	if strings.TrimSpace(j.OutputRoot) == "" {
		problems = append(problems, "output root is required")
	}
	if _, err := encoding.ParseFormat(string(j.Format)); err != nil {
		problems = append(problems, fmt.Sprintf("unsupported format %q", j.Format))
	}
	switch {
	case strings.TrimSpace(j.Artist) == "":
		problems = append(problems, "artist is required")
	case !usableSegment(j.Artist):
		problems = append(problems, "artist has no characters usable in a directory name")
	}
	switch {
	case strings.TrimSpace(j.Album) == "":
		problems = append(problems, "album is required")
	case !usableSegment(j.Album):
		problems = append(problems, "album has no characters usable in a directory name")
	}
	if j.DiscNumber < 0 || j.DiscCount < 0 {
		problems = append(problems, "disc number and count must not be negative")
	}
	if len(j.Tracks) == 0 {
		problems = append(problems, "at least one track is required")
	}
	seen := make(map[int]struct{}, len(j.Tracks))
	for _, t := range j.Tracks {
		if t.Number <= 0 {
			problems = append(problems, fmt.Sprintf("track number %d must be positive", t.Number))
			continue
		}
		if _, dup := seen[t.Number]; dup {
			problems = append(problems, fmt.Sprintf("track %d listed twice", t.Number))
		}
		seen[t.Number] = struct{}{}
	}
	if len(problems) > 0 {
		return services.Wrap(services.ErrValidation, "ripping", "validate job", strings.Join(problems, "; "), ErrInvalidJob)
	}
	return nil
}

// OutputDir returns root/<artist>/<album>[/Disc n].
func (j RipJob) OutputDir() string {
	dir := filepath.Join(j.OutputRoot, textutil.SanitizeFileName(j.Artist), textutil.SanitizeFileName(j.Album))
	if j.DiscNumber > 0 {
		dir = filepath.Join(dir, fmt.Sprintf("Disc %d", j.DiscNumber))
	}
	return dir
}

// TrackFileName renders "NN. Title.ext". Untitled tracks fall back to
// "Track NN".
func TrackFileName(t Track, f encoding.Format) string {
	title := textutil.SanitizeFileName(t.DisplayTitle())
	if title == "" {
		title = fmt.Sprintf("Track %02d", t.Number)
	}
	return fmt.Sprintf("%02d. %s.%s", t.Number, title, f.Extension())
}

// DisplayTitle returns the title, or "Track NN" when it is blank.
func (t Track) DisplayTitle() string {
	if title := strings.TrimSpace(t.Title); title != "" {
		return title
	}
	return fmt.Sprintf("Track %02d", t.Number)
}

// usableSegment rejects names that sanitize to nothing or to dot-only
// segments such as "..".
func usableSegment(name string) bool {
	return strings.Trim(textutil.SanitizeFileName(name), ". ") != ""
}
