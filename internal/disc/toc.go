package disc

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoAudioTracks reports diagnostic text without a single track line.
	ErrNoAudioTracks = errors.New("no audio tracks found")
	// ErrMissingTotalSectors reports diagnostic text without a TOTAL line, so
	// the leadout cannot be derived.
	ErrMissingTotalSectors = errors.New("total sector count missing from table of contents")
	// ErrMalformedTOC reports track or total lines that break TOC invariants.
	ErrMalformedTOC = errors.New("malformed table of contents")
)

const (
	trackLabelMarker = "."
	totalKeyword     = "TOTAL"
	// startSectorField is the zero-based field index of a track's begin sector.
	startSectorField = 3
)

// TrackOffset is a single audio track and the sector it starts at.
type TrackOffset struct {
	Number      int `json:"number"`
	StartSector int `json:"start_sector"`
}

// TOC is the audio Table of Contents of one disc. It is built once from a
// single scan and never mutated afterwards.
type TOC struct {
	TrackCount    int           `json:"track_count"`
	LeadoutSector int           `json:"leadout_sector"`
	Offsets       []TrackOffset `json:"offsets"`
}

// ParseTOC extracts a TOC from the scanning tool's diagnostic output.
//
// Track lines are those whose first field is a number followed by ".", and
// their fourth field is the start sector. The line starting with TOTAL holds
// the disc's sector count in its second field. Any other line is ignored and
// lines may appear in any order.
//
// The leadout is the first track's start plus the total sector count; the
// tool counts sectors from the start of the audio area, not from sector 0.
func ParseTOC(raw string) (*TOC, error) {
	var (
		offsets  []TrackOffset
		total    int
		hasTotal bool
	)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if number, ok := parseTrackLabel(fields[0]); ok {
			if len(fields) <= startSectorField {
				return nil, fmt.Errorf("%w: track %d line has %d fields", ErrMalformedTOC, number, len(fields))
			}
			start, err := strconv.Atoi(fields[startSectorField])
			if err != nil || start < 0 {
				return nil, fmt.Errorf("%w: track %d start sector %q", ErrMalformedTOC, number, fields[startSectorField])
			}
			offsets = append(offsets, TrackOffset{Number: number, StartSector: start})
			continue
		}

		if fields[0] == totalKeyword && !hasTotal {
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: TOTAL line without sector count", ErrMalformedTOC)
			}
			value, err := strconv.Atoi(fields[1])
			if err != nil || value < 0 {
				return nil, fmt.Errorf("%w: TOTAL sector count %q", ErrMalformedTOC, fields[1])
			}
			total = value
			hasTotal = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table of contents: %w", err)
	}

	if len(offsets) == 0 {
		return nil, ErrNoAudioTracks
	}
	if !hasTotal {
		return nil, ErrMissingTotalSectors
	}

	toc := &TOC{
		TrackCount:    len(offsets),
		LeadoutSector: offsets[0].StartSector + total,
		Offsets:       offsets,
	}
	if err := toc.Validate(); err != nil {
		return nil, err
	}
	return toc, nil
}

// Validate checks the structural invariants of the TOC.
func (t *TOC) Validate() error {
	if t == nil || t.TrackCount <= 0 || len(t.Offsets) == 0 {
		return ErrNoAudioTracks
	}
	if len(t.Offsets) != t.TrackCount {
		return fmt.Errorf("%w: %d offsets for %d tracks", ErrMalformedTOC, len(t.Offsets), t.TrackCount)
	}
	for i, off := range t.Offsets {
		if off.Number != i+1 {
			return fmt.Errorf("%w: expected track %d, found %d", ErrMalformedTOC, i+1, off.Number)
		}
		if i > 0 && off.StartSector <= t.Offsets[i-1].StartSector {
			return fmt.Errorf("%w: track %d starts at %d, not after track %d", ErrMalformedTOC, off.Number, off.StartSector, t.Offsets[i-1].Number)
		}
	}
	last := t.Offsets[len(t.Offsets)-1]
	if t.LeadoutSector <= last.StartSector {
		return fmt.Errorf("%w: leadout %d does not follow track %d at %d", ErrMalformedTOC, t.LeadoutSector, last.Number, last.StartSector)
	}
	return nil
}

// TrackNumbers lists the track numbers in disc order.
func (t *TOC) TrackNumbers() []int {
	if t == nil {
		return nil
	}
	out := make([]int, len(t.Offsets))
	for i, off := range t.Offsets {
		out[i] = off.Number
	}
	return out
}

func parseTrackLabel(token string) (int, bool) {
	label, ok := strings.CutSuffix(token, trackLabelMarker)
	if !ok || label == "" {
		return 0, false
	}
	n, err := strconv.Atoi(label)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
