package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cdripper/internal/disc"
	"cdripper/internal/ripping"
	"cdripper/internal/services/musicbrainz"
)

var errNoInput = errors.New("input closed before an answer was given")

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// line asks for one value. An empty answer yields def.
func (p *prompter) line(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	text, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	return text, nil
}

func (p *prompter) number(label string, def int) (int, error) {
	defText := ""
	if def > 0 {
		defText = strconv.Itoa(def)
	}
	for {
		text, err := p.line(label, defText)
		if err != nil {
			return 0, err
		}
		if text == "" {
			return 0, nil
		}
		n, convErr := strconv.Atoi(text)
		if convErr == nil && n >= 0 {
			return n, nil
		}
		fmt.Fprintf(p.out, "%q is not a number\n", text)
	}
}

// choose lists every choice and returns the picked one. The last choice is
// always manual entry, which returns a nil candidate.
func (p *prompter) choose(choices []musicbrainz.Choice) (*musicbrainz.ReleaseCandidate, error) {
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, c.Label)
	}
	for {
		text, err := p.line("Select a release", "1")
		if err != nil {
			return nil, err
		}
		n, convErr := strconv.Atoi(text)
		if convErr == nil && n >= 1 && n <= len(choices) {
			return choices[n-1].Candidate, nil
		}
		fmt.Fprintf(p.out, "enter a number between 1 and %d\n", len(choices))
	}
}

// manualEntry asks for album metadata and every track title. Values already
// in job are offered as defaults.
func (p *prompter) manualEntry(job *ripping.RipJob, toc *disc.TOC) error {
	var err error
	if job.Artist, err = p.line("Artist", job.Artist); err != nil {
		return err
	}
	if job.Album, err = p.line("Album", job.Album); err != nil {
		return err
	}
	if job.Year, err = p.line("Year", job.Year); err != nil {
		return err
	}
	if job.DiscNumber, err = p.number("Disc number (blank for single disc)", job.DiscNumber); err != nil {
		return err
	}
	if job.DiscNumber > 0 {
		if job.DiscCount, err = p.number("Disc count", job.DiscCount); err != nil {
			return err
		}
	}

	titles := make(map[int]string, len(job.Tracks))
	for _, t := range job.Tracks {
		titles[t.Number] = t.Title
	}
	numbers := toc.TrackNumbers()
	if len(numbers) == 0 {
		for _, t := range job.Tracks {
			numbers = append(numbers, t.Number)
		}
	}
	tracks := make([]ripping.Track, 0, len(numbers))
	for _, n := range numbers {
		title, err := p.line(fmt.Sprintf("Track %02d title", n), titles[n])
		if err != nil {
			return err
		}
		tracks = append(tracks, ripping.Track{Number: n, Title: title})
	}
	job.Tracks = tracks
	return nil
}
