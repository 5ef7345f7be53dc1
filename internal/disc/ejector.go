package disc

import (
	"context"
	"strings"

	"cdripper/internal/services"
)

// Ejector opens the drive tray.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

// CommandEjector runs the eject(1) utility.
type CommandEjector struct {
	Binary string
	exec   Executor
}

// NewEjector returns an ejector that runs "eject <device>".
func NewEjector() *CommandEjector {
	return &CommandEjector{Binary: "eject", exec: commandExecutor{}}
}

// Eject opens the tray of device. A blank device ejects the system default
// drive.
func (e *CommandEjector) Eject(ctx context.Context, device string) error {
	var args []string
	if device = strings.TrimSpace(device); device != "" {
		args = append(args, device)
	}
	out, err := e.exec.Run(ctx, e.Binary, args)
	if err != nil {
		detail := strings.TrimSpace(string(out.Stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(out.Stdout))
		}
		msg := "eject " + device
		if detail != "" {
			msg += ": " + detail
		}
		return services.Wrap(services.ErrExternalTool, "eject", "run eject", msg, err)
	}
	return nil
}
