package encoding

import (
	"fmt"
	"strings"

	"cdripper/internal/services"
)

// Format is an output audio format.
type Format string

const (
	FormatFLAC Format = "FLAC"
	FormatWAV  Format = "WAV"
	FormatMP3  Format = "MP3"
	FormatOGG  Format = "OGG"
)

var allFormats = []Format{FormatFLAC, FormatWAV, FormatMP3, FormatOGG}

// Formats lists the supported formats in presentation order.
func Formats() []Format {
	return append([]Format(nil), allFormats...)
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(value string) (Format, error) {
	candidate := Format(strings.ToUpper(strings.TrimSpace(value)))
	for _, f := range allFormats {
		if f == candidate {
			return f, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "encoding", "format", fmt.Sprintf("unsupported format %q", value), nil)
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// Compressed reports whether the format needs an encoder stage.
func (f Format) Compressed() bool {
	return f != FormatWAV
}

func (f Format) String() string {
	return string(f)
}
