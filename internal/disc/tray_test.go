package disc

import "testing"

func TestDriveStateReadyForRip(t *testing.T) {
	tests := []struct {
		state DriveState
		ready bool
		label string
	}{
		{DriveState{Tray: TrayLoaded, Content: ContentAudio}, true, "disc loaded, audio"},
		{DriveState{Tray: TrayLoaded, Content: ContentMixed}, true, "disc loaded, mixed audio/data"},
		{DriveState{Tray: TrayLoaded, Content: ContentData1}, false, "disc loaded, data"},
		{DriveState{Tray: TrayOpen}, false, "tray open"},
		{DriveState{Tray: TrayEmpty, Content: ContentAudio}, false, "no disc"},
		{DriveState{Tray: TrayState(9)}, false, "state 9"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := tt.state.ReadyForRip(); got != tt.ready {
				t.Errorf("ReadyForRip() = %v, want %v", got, tt.ready)
			}
			if got := tt.state.String(); got != tt.label {
				t.Errorf("String() = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestProbeDriveRejectsMissingDevice(t *testing.T) {
	if _, err := ProbeDrive("  "); err == nil {
		t.Fatal("expected error for blank device")
	}
	if _, err := ProbeDrive("/dev/cdrip-no-such-drive"); err == nil {
		t.Fatal("expected error for nonexistent device")
	}
}
