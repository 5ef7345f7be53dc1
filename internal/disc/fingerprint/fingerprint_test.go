package fingerprint_test

import (
	"testing"

	"cdripper/internal/disc"
	"cdripper/internal/disc/fingerprint"
)

func toc(leadout int, starts ...int) *disc.TOC {
	t := &disc.TOC{TrackCount: len(starts), LeadoutSector: leadout}
	for i, s := range starts {
		t.Offsets = append(t.Offsets, disc.TrackOffset{Number: i + 1, StartSector: s})
	}
	return t
}

func TestBuildTwoTrackScenario(t *testing.T) {
	got := fingerprint.Build(toc(42000, 0, 21000))
	if got != "1+2+42000+0+21000" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
}

func TestBuildFromParsedTOC(t *testing.T) {
	parsed, err := disc.ParseTOC("  1. 21000 [x] 0 [y]\n  2. 21000 [x] 21000 [y]\nTOTAL 42000 [z]\n")
	if err != nil {
		t.Fatalf("ParseTOC returned error: %v", err)
	}
	if got := fingerprint.Build(parsed); got != "1+2+42000+0+21000" {
		t.Fatalf("unexpected fingerprint: %q", got)
	}
}

func TestBuildDistinguishesTOCs(t *testing.T) {
	tocs := []*disc.TOC{
		toc(42000, 0, 21000),
		toc(42001, 0, 21000),
		toc(42000, 0, 21001),
		toc(42000, 150, 21000),
		toc(42000, 0, 21000, 30000),
		toc(42000, 0),
	}
	seen := map[string]int{}
	for i, tc := range tocs {
		fp := fingerprint.Build(tc)
		if prev, ok := seen[fp]; ok {
			t.Fatalf("toc %d and %d share fingerprint %q", prev, i, fp)
		}
		seen[fp] = i
	}
}

func TestBuildNil(t *testing.T) {
	if got := fingerprint.Build(nil); got != "" {
		t.Fatalf("expected empty fingerprint, got %q", got)
	}
}

func TestQuery(t *testing.T) {
	got := fingerprint.Query("1+2+42000+0+21000")
	want := "toc=1+2+42000+0+21000&fmt=json&inc=artist-credits+recordings+release-groups"
	if got != want {
		t.Fatalf("unexpected query:\n got %s\nwant %s", got, want)
	}
}
