package encoding

import "strconv"

type mp3Strategy struct {
	binary  string
	bitrate int
}

func (mp3Strategy) Format() Format   { return FormatMP3 }
func (s mp3Strategy) Binary() string { return s.binary }

// Args emits ID3v2 frames through lame's --t* flags. The disc position is
// only written when both number and total are known.
func (s mp3Strategy) Args(tags Tags, output string) ([]string, error) {
	if err := tags.Validate(); err != nil {
		return nil, err
	}
	if err := checkOutput(output); err != nil {
		return nil, err
	}

	bitrate := s.bitrate
	if bitrate <= 0 {
		bitrate = 320
	}
	args := []string{"-S", "-b", strconv.Itoa(bitrate), "--add-id3v2",
		"--tt", tags.Title,
		"--ta", tags.Artist,
		"--tl", tags.Album,
	}
	if tags.Year != "" {
		args = append(args, "--ty", tags.Year)
	}
	args = append(args, "--tn", tags.track())
	if disc, total := tags.disc(), tags.discCount(); disc != "" && total != "" {
		args = append(args, "--tv", "TPOS="+disc+"/"+total)
	}
	if tags.CoverArtPath != "" {
		args = append(args, "--ti", tags.CoverArtPath)
	}
	return append(args, "-", output), nil
}
