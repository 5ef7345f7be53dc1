package musicbrainz

import (
	"fmt"
	"strings"
)

// Track is one entry of a release's track listing.
type Track struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// ReleaseCandidate is a catalog release matching a disc fingerprint.
// Zero DiscNumber/DiscCount and an empty Year mean the value was absent.
type ReleaseCandidate struct {
	ID               string  `json:"id"`
	Artist           string  `json:"artist"`
	Title            string  `json:"title"`
	Year             string  `json:"year,omitempty"`
	DiscNumber       int     `json:"disc_number,omitempty"`
	DiscCount        int     `json:"disc_count,omitempty"`
	Tracks           []Track `json:"tracks"`
	HasFrontCoverArt bool    `json:"has_front_cover_art"`
}

// Label renders the candidate the way it is presented for selection.
func (r ReleaseCandidate) Label() string {
	label := fmt.Sprintf("%s - %s", strings.TrimSpace(r.Artist), strings.TrimSpace(r.Title))
	var extras []string
	if r.Year != "" {
		extras = append(extras, r.Year)
	}
	if r.DiscCount > 1 && r.DiscNumber > 0 {
		extras = append(extras, fmt.Sprintf("disc %d/%d", r.DiscNumber, r.DiscCount))
	}
	extras = append(extras, fmt.Sprintf("%d tracks", len(r.Tracks)))
	return fmt.Sprintf("%s (%s)", label, strings.Join(extras, ", "))
}

// Decision describes how a caller should treat a lookup result.
type Decision int

const (
	// DecisionManual means there is nothing to pick; enter metadata by hand.
	DecisionManual Decision = iota
	// DecisionConfirm means a single candidate may be confirmed directly.
	DecisionConfirm
	// DecisionChoose means every candidate must be presented for selection.
	DecisionChoose
)

func (d Decision) String() string {
	switch d {
	case DecisionConfirm:
		return "confirm"
	case DecisionChoose:
		return "choose"
	default:
		return "manual"
	}
}

// Decide picks the disambiguation path from the candidate count alone.
func Decide(candidates []ReleaseCandidate) Decision {
	switch {
	case len(candidates) == 1:
		return DecisionConfirm
	case len(candidates) > 1:
		return DecisionChoose
	default:
		return DecisionManual
	}
}

// Choice is one selectable option. A nil Candidate is the manual entry option.
type Choice struct {
	Label     string
	Candidate *ReleaseCandidate
}

// ManualEntryLabel is the label of the trailing manual entry choice.
const ManualEntryLabel = "Enter metadata manually"

// Choices lists every candidate in service order followed by the manual
// entry option.
func Choices(candidates []ReleaseCandidate) []Choice {
	out := make([]Choice, 0, len(candidates)+1)
	for i := range candidates {
		out = append(out, Choice{Label: candidates[i].Label(), Candidate: &candidates[i]})
	}
	return append(out, Choice{Label: ManualEntryLabel})
}
