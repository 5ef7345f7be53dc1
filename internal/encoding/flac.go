package encoding

import "strconv"

type flacStrategy struct {
	binary      string
	compression int
	replayGain  bool
}

func (flacStrategy) Format() Format   { return FormatFLAC }
func (s flacStrategy) Binary() string { return s.binary }

// Args emits Vorbis comments with -T NAME=value pairs.
func (s flacStrategy) Args(tags Tags, output string) ([]string, error) {
	if err := tags.Validate(); err != nil {
		return nil, err
	}
	if err := checkOutput(output); err != nil {
		return nil, err
	}

	level := "--best"
	if s.compression >= 0 && s.compression < 8 {
		level = "-" + strconv.Itoa(s.compression)
	}
	args := []string{"-s", "-f", level, "--verify"}
	if s.replayGain {
		args = append(args, "--replay-gain")
	}
	comment := func(name, value string) {
		if value != "" {
			args = append(args, "-T", name+"="+value)
		}
	}
	comment("ARTIST", tags.Artist)
	comment("ALBUM", tags.Album)
	comment("TITLE", tags.Title)
	comment("TRACKNUMBER", tags.track())
	comment("DATE", tags.Year)
	comment("DISCNUMBER", tags.disc())
	comment("TOTALDISCS", tags.discCount())
	if tags.CoverArtPath != "" {
		args = append(args, "--picture="+tags.CoverArtPath)
	}
	return append(args, "-o", output, "-"), nil
}
