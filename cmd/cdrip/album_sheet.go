package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cdripper/internal/disc"
	"cdripper/internal/ripping"
	"cdripper/internal/workflow"
)

// albumSheet is the --tracks-file format for metadata entered by hand.
//
//	artist = "Portishead"
//	album = "Dummy"
//	year = "1994"
//
//	[[tracks]]
//	number = 1
//	title = "Mysterons"
type albumSheet struct {
	Artist     string          `toml:"artist"`
	Album      string          `toml:"album"`
	Year       string          `toml:"year"`
	DiscNumber int             `toml:"disc_number"`
	DiscCount  int             `toml:"disc_count"`
	Tracks     []ripping.Track `toml:"tracks"`
}

func loadAlbumSheet(path string) (*albumSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tracks file: %w", err)
	}
	defer f.Close()

	var sheet albumSheet
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&sheet); err != nil {
		return nil, fmt.Errorf("parse tracks file %s: %w", path, err)
	}
	sheet.Artist = strings.TrimSpace(sheet.Artist)
	sheet.Album = strings.TrimSpace(sheet.Album)
	sheet.Year = strings.TrimSpace(sheet.Year)
	return &sheet, nil
}

// apply copies the sheet into job. When the sheet lists no tracks, every
// track on the disc is ripped with a placeholder title.
func (s *albumSheet) apply(job *ripping.RipJob, toc *disc.TOC) {
	job.Artist = s.Artist
	job.Album = s.Album
	job.Year = s.Year
	job.DiscNumber = s.DiscNumber
	job.DiscCount = s.DiscCount
	if len(s.Tracks) > 0 {
		job.Tracks = append([]ripping.Track(nil), s.Tracks...)
		return
	}
	job.Tracks = workflow.ManualTracks(toc)
}
