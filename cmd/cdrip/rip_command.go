package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cdripper/internal/config"
	"cdripper/internal/disc"
	"cdripper/internal/encoding"
	"cdripper/internal/ripping"
	"cdripper/internal/services/musicbrainz"
	"cdripper/internal/workflow"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

type ripOptions struct {
	device     string
	format     string
	manual     bool
	tracksFile string
	yes        bool
	release    int
	coverFile  string
	noCover    bool
}

func newRipCommand(ctx *commandContext) *cobra.Command {
	var opts ripOptions

	cmd := &cobra.Command{
		Use:   "rip",
		Short: "Look up, confirm, and rip the disc",
		Long: `Rip the disc in the configured drive.

The disc is looked up on MusicBrainz first. A single match is confirmed with
--yes (or interactively); several matches need --release N or a choice at the
prompt. Use --manual to type the metadata or --tracks-file to read it from a
TOML album sheet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(cfg *config.Config, mgr *workflow.Manager) error {
				return runRip(cmd, cfg, mgr, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.device, "device", "d", "", "Optical drive device path (defaults to drive.device)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: flac, mp3, ogg or wav (defaults to encoding.default_format)")
	flags.BoolVar(&opts.manual, "manual", false, "Skip the lookup and enter metadata interactively")
	flags.StringVar(&opts.tracksFile, "tracks-file", "", "Read album metadata from a TOML album sheet")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Confirm a single match without prompting")
	flags.IntVar(&opts.release, "release", 0, "Pick the Nth release when the lookup returns several")
	flags.StringVar(&opts.coverFile, "cover", "", "Use this image as cover art instead of downloading one")
	flags.BoolVar(&opts.noCover, "no-cover", false, "Do not save or embed cover art")
	cmd.MarkFlagsMutuallyExclusive("manual", "tracks-file")
	cmd.MarkFlagsMutuallyExclusive("cover", "no-cover")
	return cmd
}

func runRip(cmd *cobra.Command, cfg *config.Config, mgr *workflow.Manager, opts ripOptions) error {
	formatName := opts.format
	if formatName == "" {
		formatName = cfg.Encoding.DefaultFormat
	}
	format, err := encoding.ParseFormat(formatName)
	if err != nil {
		return err
	}
	device := strings.TrimSpace(opts.device)
	if device == "" {
		device = cfg.Drive.Device
	}

	stderr := cmd.ErrOrStderr()
	interactive := stdinIsTerminal()
	prompt := newPrompter(cmd.InOrStdin(), stderr)

	job := ripping.RipJob{DevicePath: device, Format: format, OutputRoot: cfg.Paths.OutputDir}
	switch {
	case opts.tracksFile != "":
		sheet, err := loadAlbumSheet(opts.tracksFile)
		if err != nil {
			return err
		}
		var toc *disc.TOC
		if len(sheet.Tracks) == 0 {
			if toc, err = readTOC(cmd.Context(), mgr, device, stderr); err != nil {
				return err
			}
		}
		sheet.apply(&job, toc)
	case opts.manual:
		if !interactive {
			return errors.New("--manual needs a terminal; use --tracks-file instead")
		}
		toc, err := readTOC(cmd.Context(), mgr, device, stderr)
		if err != nil {
			return err
		}
		if err := prompt.manualEntry(&job, toc); err != nil {
			return err
		}
	default:
		if err := resolveFromLookup(cmd.Context(), mgr, &job, opts, interactive, prompt, stderr); err != nil {
			return err
		}
	}

	if err := applyCover(&job, opts); err != nil {
		return err
	}

	ripJob, err := mgr.StartRip(cmd.Context(), job)
	if err != nil {
		return err
	}
	result, err := followJob(stderr, ripJob, "ripping", isTerminal(stderr))
	if len(result.Tracks) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderTrackResults(result.Tracks))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ripped %d tracks to %s\n", len(result.Tracks), result.OutputDir)
	return nil
}

func readTOC(ctx context.Context, mgr *workflow.Manager, device string, out io.Writer) (*disc.TOC, error) {
	job, err := mgr.StartLookup(ctx, workflow.LookupRequest{Device: device, TOCOnly: true})
	if err != nil {
		return nil, err
	}
	result, err := followJob(out, job, "scan", false)
	if err != nil {
		return nil, err
	}
	return result.Lookup.TOC, nil
}

// resolveFromLookup fills job from the lookup, a choice among candidates, or
// manual entry when the disc is unknown.
func resolveFromLookup(ctx context.Context, mgr *workflow.Manager, job *ripping.RipJob, opts ripOptions, interactive bool, prompt *prompter, out io.Writer) error {
	lookupJob, err := mgr.StartLookup(ctx, workflow.LookupRequest{Device: job.DevicePath})
	if err != nil {
		return err
	}
	result, err := followJob(out, lookupJob, "lookup", false)
	lookup := result.Lookup
	if err != nil {
		if !errors.Is(err, musicbrainz.ErrNoMatch) || lookup == nil {
			return err
		}
		if !interactive {
			return fmt.Errorf("%w; rerun with --tracks-file", err)
		}
		fmt.Fprintln(out, err)
		return prompt.manualEntry(job, lookup.TOC)
	}

	candidate, err := pickCandidate(lookup, opts, interactive, prompt, out)
	if err != nil {
		return err
	}
	if candidate == nil {
		return prompt.manualEntry(job, lookup.TOC)
	}

	seeded := workflow.JobFromCandidate(*candidate, job.DevicePath, job.Format, job.OutputRoot)
	*job = seeded
	if opts.noCover || opts.coverFile != "" {
		return nil
	}
	switch {
	case lookup.Decision == musicbrainz.DecisionConfirm && len(lookup.Cover) > 0:
		job.CoverArt = lookup.Cover
	case candidate.HasFrontCoverArt:
		cover, err := mgr.FetchCover(ctx, candidate.ID)
		if err != nil {
			fmt.Fprintf(out, "warning: cover art unavailable: %v\n", err)
		}
		job.CoverArt = cover
	}
	return nil
}

// pickCandidate applies the confirmation policy. A nil candidate without
// error means manual entry was chosen.
func pickCandidate(lookup *workflow.LookupResult, opts ripOptions, interactive bool, prompt *prompter, out io.Writer) (*musicbrainz.ReleaseCandidate, error) {
	candidates := lookup.Candidates
	if opts.release > 0 {
		if opts.release > len(candidates) {
			return nil, fmt.Errorf("--release %d out of range (lookup returned %d releases)", opts.release, len(candidates))
		}
		return &candidates[opts.release-1], nil
	}

	switch lookup.Decision {
	case musicbrainz.DecisionConfirm:
		if opts.yes {
			return &candidates[0], nil
		}
		if !interactive {
			return nil, errors.New("one release matched; rerun with --yes to confirm it")
		}
	case musicbrainz.DecisionChoose:
		if !interactive {
			fmt.Fprintln(out, renderCandidates(candidates))
			return nil, fmt.Errorf("%d releases matched; rerun with --release N", len(candidates))
		}
	default:
		if !interactive {
			return nil, errors.New("no release matched; rerun with --tracks-file")
		}
		return nil, nil
	}
	return prompt.choose(musicbrainz.Choices(candidates))
}

func applyCover(job *ripping.RipJob, opts ripOptions) error {
	if opts.noCover {
		job.CoverArt = nil
		return nil
	}
	if opts.coverFile == "" {
		return nil
	}
	data, err := os.ReadFile(opts.coverFile)
	if err != nil {
		return fmt.Errorf("read cover: %w", err)
	}
	job.CoverArt = data
	return nil
}

func renderTrackResults(results []ripping.TrackResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		detail := r.OutputPath
		if !r.Succeeded {
			status = "failed"
			detail = r.ErrorDetail
		}
		rows = append(rows, []string{strconv.Itoa(r.TrackNumber), status, detail})
	}
	return renderTable("", []column{right("Track"), left("Status"), left("Output")}, rows)
}
