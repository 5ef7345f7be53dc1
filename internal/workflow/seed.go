package workflow

import (
	"fmt"

	"cdripper/internal/disc"
	"cdripper/internal/encoding"
	"cdripper/internal/ripping"
	"cdripper/internal/services/musicbrainz"
)

// JobFromCandidate seeds a rip job from a confirmed release.
func JobFromCandidate(c musicbrainz.ReleaseCandidate, device string, format encoding.Format, outputRoot string) ripping.RipJob {
	tracks := make([]ripping.Track, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		tracks = append(tracks, ripping.Track{Number: t.Number, Title: t.Title})
	}
	return ripping.RipJob{
		DevicePath: device,
		Format:     format,
		OutputRoot: outputRoot,
		Artist:     c.Artist,
		Album:      c.Title,
		Year:       c.Year,
		DiscNumber: c.DiscNumber,
		DiscCount:  c.DiscCount,
		Tracks:     tracks,
	}
}

// ManualTracks lists every track on the disc with an empty title, the
// starting point for manual entry.
func ManualTracks(toc *disc.TOC) []ripping.Track {
	if toc == nil {
		return nil
	}
	numbers := toc.TrackNumbers()
	tracks := make([]ripping.Track, 0, len(numbers))
	for _, n := range numbers {
		tracks = append(tracks, ripping.Track{Number: n})
	}
	return tracks
}

func formatPosition(index, total int) string {
	return fmt.Sprintf("%d/%d", index, total)
}
