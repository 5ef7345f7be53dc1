package encoding

import (
	"errors"
	"strconv"
	"strings"

	"cdripper/internal/services"
)

// ErrInvalidTags reports tag values an encoder cannot be invoked with.
var ErrInvalidTags = errors.New("invalid tag values")

// Tags is the format-neutral set of values embedded into every output file.
// Zero DiscNumber/DiscCount, an empty Year, and an empty CoverArtPath are
// omitted from the encoder arguments.
type Tags struct {
	Artist       string
	Album        string
	Title        string
	TrackNumber  int
	Year         string
	DiscNumber   int
	DiscCount    int
	CoverArtPath string
}

// Validate ensures the mandatory tags are present.
func (t Tags) Validate() error {
	var missing []string
	if strings.TrimSpace(t.Artist) == "" {
		missing = append(missing, "artist")
	}
	if strings.TrimSpace(t.Album) == "" {
		missing = append(missing, "album")
	}
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if t.TrackNumber <= 0 {
		missing = append(missing, "track number")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "encoding", "tags", "missing "+strings.Join(missing, ", "), ErrInvalidTags)
	}
	return nil
}

func (t Tags) track() string {
	return strconv.Itoa(t.TrackNumber)
}

func (t Tags) disc() string {
	if t.DiscNumber <= 0 {
		return ""
	}
	return strconv.Itoa(t.DiscNumber)
}

func (t Tags) discCount() string {
	if t.DiscCount <= 0 {
		return ""
	}
	return strconv.Itoa(t.DiscCount)
}
