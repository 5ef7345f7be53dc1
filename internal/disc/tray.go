package disc

import "fmt"

// TrayState is the drive state reported by CDROM_DRIVE_STATUS.
type TrayState int

const (
	TrayNoInfo   TrayState = 0
	TrayEmpty    TrayState = 1
	TrayOpen     TrayState = 2
	TrayNotReady TrayState = 3
	TrayLoaded   TrayState = 4
)

func (s TrayState) String() string {
	switch s {
	case TrayNoInfo:
		return "no information"
	case TrayEmpty:
		return "no disc"
	case TrayOpen:
		return "tray open"
	case TrayNotReady:
		return "not ready"
	case TrayLoaded:
		return "disc loaded"
	}
	return fmt.Sprintf("state %d", int(s))
}

// Content is the disc type reported by CDROM_DISC_STATUS. Only meaningful
// when the tray is loaded.
type Content int

const (
	ContentUnknown Content = 0
	ContentAudio   Content = 100
	ContentData1   Content = 101
	ContentData2   Content = 102
	ContentXA21    Content = 103
	ContentXA22    Content = 104
	ContentMixed   Content = 105
)

// HasAudio reports whether the disc carries CD-DA tracks.
func (c Content) HasAudio() bool {
	return c == ContentAudio || c == ContentMixed
}

func (c Content) String() string {
	switch c {
	case ContentAudio:
		return "audio"
	case ContentMixed:
		return "mixed audio/data"
	case ContentData1, ContentData2, ContentXA21, ContentXA22:
		return "data"
	case ContentUnknown:
		return "unknown"
	}
	return fmt.Sprintf("content %d", int(c))
}

// DriveState is a point-in-time probe of one drive.
type DriveState struct {
	Tray    TrayState
	Content Content
}

// ReadyForRip reports whether a rip could start right now.
func (s DriveState) ReadyForRip() bool {
	return s.Tray == TrayLoaded && s.Content.HasAudio()
}

func (s DriveState) String() string {
	if s.Tray != TrayLoaded {
		return s.Tray.String()
	}
	return s.Tray.String() + ", " + s.Content.String()
}
