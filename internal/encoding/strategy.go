package encoding

import (
	"errors"
	"strings"

	"cdripper/internal/services"
)

// Strategy builds the command line of one format's encoder. The encoder reads
// raw audio from stdin and writes output.
type Strategy interface {
	Format() Format
	Binary() string
	Args(tags Tags, output string) ([]string, error)
}

// Settings holds the encoder binaries and quality knobs.
type Settings struct {
	FLACBinary      string
	FLACCompression int
	ReplayGain      bool
	LAMEBinary      string
	MP3Bitrate      int
	OggEncBinary    string
	OggQuality      int
}

// DefaultSettings mirrors the stock encoder choices.
func DefaultSettings() Settings {
	return Settings{
		FLACBinary:      "flac",
		FLACCompression: 8,
		LAMEBinary:      "lame",
		MP3Bitrate:      320,
		OggEncBinary:    "oggenc",
		OggQuality:      10,
	}
}

// Registry maps formats to their strategies.
type Registry struct {
	strategies map[Format]Strategy
}

// NewRegistry registers the built-in strategies configured by settings.
func NewRegistry(settings Settings) *Registry {
	defaults := DefaultSettings()
	if strings.TrimSpace(settings.FLACBinary) == "" {
		settings.FLACBinary = defaults.FLACBinary
	}
	if strings.TrimSpace(settings.LAMEBinary) == "" {
		settings.LAMEBinary = defaults.LAMEBinary
	}
	if strings.TrimSpace(settings.OggEncBinary) == "" {
		settings.OggEncBinary = defaults.OggEncBinary
	}
	r := &Registry{strategies: make(map[Format]Strategy)}
	r.Register(flacStrategy{binary: settings.FLACBinary, compression: settings.FLACCompression, replayGain: settings.ReplayGain})
	r.Register(mp3Strategy{binary: settings.LAMEBinary, bitrate: settings.MP3Bitrate})
	r.Register(oggStrategy{binary: settings.OggEncBinary, quality: settings.OggQuality})
	return r
}

// Register adds or replaces the strategy for its format.
func (r *Registry) Register(s Strategy) {
	if s == nil {
		return
	}
	r.strategies[s.Format()] = s
}

// Lookup returns the strategy for f. WAV never has one.
func (r *Registry) Lookup(f Format) (Strategy, bool) {
	if r == nil || !f.Compressed() {
		return nil, false
	}
	s, ok := r.strategies[f]
	return s, ok
}

// Binaries maps each compressed format to its encoder executable.
func (r *Registry) Binaries() map[Format]string {
	out := make(map[Format]string, len(r.strategies))
	for f, s := range r.strategies {
		out[f] = s.Binary()
	}
	return out
}

func checkOutput(output string) error {
	if strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrValidation, "encoding", "args", "output path required", errors.New("empty output path"))
	}
	return nil
}
