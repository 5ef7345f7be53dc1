package fingerprint

import (
	"net/url"
	"strconv"
	"strings"

	"cdripper/internal/disc"
)

const (
	// SubmissionVersion is the leading field of every rendered fingerprint.
	SubmissionVersion = 1
	separator         = "+"
	// includes requests artist credits, recordings, and release groups.
	includes = "artist-credits+recordings+release-groups"
)

// Build renders the TOC as the positional lookup string.
func Build(toc *disc.TOC) string {
	if toc == nil {
		return ""
	}
	parts := make([]string, 0, 3+len(toc.Offsets))
	parts = append(parts,
		strconv.Itoa(SubmissionVersion),
		strconv.Itoa(toc.TrackCount),
		strconv.Itoa(toc.LeadoutSector),
	)
	for _, off := range toc.Offsets {
		parts = append(parts, strconv.Itoa(off.StartSector))
	}
	return strings.Join(parts, separator)
}

// Query renders the raw query string for a disc ID lookup. The "+"
// separators are left unescaped, matching the documented request form.
func Query(fp string) string {
	var b strings.Builder
	b.WriteString("toc=")
	b.WriteString(url.QueryEscape(fp))
	b.WriteString("&fmt=json&inc=")
	b.WriteString(includes)
	return strings.ReplaceAll(b.String(), "%2B", "+")
}
