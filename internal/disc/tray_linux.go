//go:build linux

package disc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// linux/cdrom.h
const (
	cdromDriveStatus = 0x5326
	cdromDiscStatus  = 0x5327
)

// ProbeDrive opens device without waiting for media and reads the tray
// and disc status.
func ProbeDrive(device string) (DriveState, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return DriveState{}, errors.New("no device configured")
	}

	fd, err := unix.Open(device, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return DriveState{}, fmt.Errorf("open %s: %w", device, err)
	}
	defer unix.Close(fd) //nolint:errcheck

	tray, err := unix.IoctlRetInt(fd, cdromDriveStatus)
	if err != nil {
		return DriveState{}, fmt.Errorf("%s is not an optical drive: %w", device, err)
	}
	state := DriveState{Tray: TrayState(tray)}
	if state.Tray != TrayLoaded {
		return state, nil
	}
	content, err := unix.IoctlRetInt(fd, cdromDiscStatus)
	if err != nil {
		return state, nil
	}
	state.Content = Content(content)
	return state, nil
}

