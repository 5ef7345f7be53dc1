//go:build !linux

package disc

import "errors"

// ProbeDrive needs the Linux cdrom ioctls.
func ProbeDrive(device string) (DriveState, error) {
	return DriveState{}, errors.New("drive probing is only supported on linux")
}
