package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cdripper/internal/config"
	"cdripper/internal/services/musicbrainz"
	"cdripper/internal/workflow"
)

func newTOCCommand(ctx *commandContext) *cobra.Command {
	var device string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Print the disc's table of contents and fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *config.Config, mgr *workflow.Manager) error {
				job, err := mgr.StartLookup(cmd.Context(), workflow.LookupRequest{Device: device, Verbose: verbose, TOCOnly: true})
				if err != nil {
					return err
				}
				result, err := followJob(cmd.ErrOrStderr(), job, "scan", false)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				toc := result.Lookup.TOC
				rows := make([][]string, 0, len(toc.Offsets))
				for _, off := range toc.Offsets {
					rows = append(rows, []string{strconv.Itoa(off.Number), strconv.Itoa(off.StartSector)})
				}
				fmt.Fprintln(out, renderTable(fmt.Sprintf("%s: %d tracks, leadout %d", job.Device, toc.TrackCount, toc.LeadoutSector),
					[]column{right("Track"), right("Start sector")}, rows))
				fmt.Fprintf(out, "Fingerprint: %s\n", result.Lookup.Fingerprint)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "", "Optical drive device path (defaults to drive.device)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo the raw scan output")
	return cmd
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var device string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look the disc up on MusicBrainz and list matching releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *config.Config, mgr *workflow.Manager) error {
				job, err := mgr.StartLookup(cmd.Context(), workflow.LookupRequest{Device: device, Verbose: verbose})
				if err != nil {
					return err
				}
				result, err := followJob(cmd.ErrOrStderr(), job, "lookup", false)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCandidates(result.Lookup.Candidates))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "", "Optical drive device path (defaults to drive.device)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo the raw scan output and service response")
	return cmd
}

func renderCandidates(candidates []musicbrainz.ReleaseCandidate) string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		disc := ""
		if c.DiscNumber > 0 && c.DiscCount > 1 {
			disc = fmt.Sprintf("%d/%d", c.DiscNumber, c.DiscCount)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Artist,
			c.Title,
			c.Year,
			disc,
			strconv.Itoa(len(c.Tracks)),
			yesNo(c.HasFrontCoverArt),
			c.ID,
		})
	}
	return renderTable("", []column{right("#"), left("Artist"), left("Album"), left("Year"), right("Disc"), right("Tracks"), left("Cover"), left("Release ID")}, rows)
}

func newEjectCommand(ctx *commandContext) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "eject",
		Short: "Open the drive tray",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(cfg *config.Config, mgr *workflow.Manager) error {
				target := device
				if target == "" {
					target = cfg.Drive.Device
				}
				if err := mgr.Eject(cmd.Context(), target); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "", "Optical drive device path (defaults to drive.device)")
	return cmd
}
