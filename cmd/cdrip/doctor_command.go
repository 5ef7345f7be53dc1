package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdripper/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, directories, drive and network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				switch {
				case !r.Passed && r.Advisory:
					status = "warn"
				case !r.Passed:
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("", []column{left("Check"), left("Status"), left("Detail")}, rows))
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d checks failed: %s", len(failed), preflight.Summarize(failed))
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}
}
