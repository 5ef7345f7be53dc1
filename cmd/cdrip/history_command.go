package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cdripper/internal/history"
)

var titleCaser = cases.Title(language.English)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "Show recent lookup and rip jobs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled (history.enabled = false)")
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if pruneDays > 0 {
				removed, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d jobs older than %d days\n", removed, pruneDays)
				return nil
			}

			if len(args) == 1 {
				entry, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("job %s not found", args[0])
				}
				fmt.Fprintln(out, renderHistoryEntry(*entry))
				return nil
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No jobs recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of jobs to show")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete jobs older than this many days instead of listing")
	return cmd
}

func renderHistory(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		tracks := ""
		if e.Kind == history.KindRip {
			tracks = fmt.Sprintf("%d/%d", e.Succeeded(), len(e.Tracks))
		}
		rows = append(rows, []string{
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			titleCaser.String(string(e.Kind)),
			titleCaser.String(string(e.Status)),
			albumLabel(e.Artist, e.Album),
			e.Format,
			tracks,
			e.Duration().Round(time.Second).String(),
			shortID(e.ID),
		})
	}
	return renderTable("", []column{left("Started"), left("Kind"), left("Status"), left("Album"), left("Format"), right("Tracks"), right("Duration"), left("Job")}, rows)
}

func renderHistoryEntry(e history.Entry) string {
	title := fmt.Sprintf("%s %s: %s", titleCaser.String(string(e.Kind)), e.ID, titleCaser.String(string(e.Status)))
	rows := [][]string{
		{"Device", e.Device},
		{"Album", albumLabel(e.Artist, e.Album)},
		{"Format", e.Format},
		{"Fingerprint", e.Fingerprint},
		{"Started", e.StartedAt.Local().Format(time.RFC3339)},
		{"Duration", e.Duration().Round(time.Second).String()},
		{"Error", e.Error},
	}
	for _, t := range e.Tracks {
		detail := t.OutputPath
		if !t.Succeeded {
			detail = "failed: " + t.ErrorDetail
		}
		rows = append(rows, []string{"Track " + strconv.Itoa(t.TrackNumber), detail})
	}
	return renderTable(title, []column{left("Field"), left("Value")}, rows)
}

func albumLabel(artist, album string) string {
	switch {
	case artist != "" && album != "":
		return artist + " - " + album
	case album != "":
		return album
	default:
		return artist
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
