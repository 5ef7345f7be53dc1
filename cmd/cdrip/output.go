package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"cdripper/internal/workflow"
)

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// followJob prints the job's log lines and progress until it finishes. On a
// terminal progress is drawn as a bar; otherwise each update is a line.
func followJob(out io.Writer, job *workflow.Job, label string, showBar bool) (workflow.Result, error) {
	var bar *progressbar.ProgressBar
	if showBar {
		bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for ev := range job.Events() {
		switch ev.Kind {
		case workflow.EventLog:
			if bar != nil {
				_ = bar.Clear()
			}
			fmt.Fprintln(out, formatLogLine(ev.Level, ev.Message))
			if bar != nil {
				_ = bar.RenderBlank()
			}
		case workflow.EventProgress:
			if bar != nil {
				_ = bar.Set(ev.Percent)
			} else {
				fmt.Fprintf(out, "%s: %d%%\n", label, ev.Percent)
			}
		case workflow.EventDone, workflow.EventFailed:
			if bar != nil {
				_ = bar.Finish()
			}
		}
	}
	return job.Wait()
}

func formatLogLine(level slog.Level, msg string) string {
	switch {
	case level >= slog.LevelError:
		return "error: " + msg
	case level >= slog.LevelWarn:
		return "warning: " + msg
	default:
		return msg
	}
}
