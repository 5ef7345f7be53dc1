package encoding

import "strconv"

type oggStrategy struct {
	binary  string
	quality int
}

func (oggStrategy) Format() Format   { return FormatOGG }
func (s oggStrategy) Binary() string { return s.binary }

// Args emits Vorbis comments; oggenc has no cover art flag, so the cover
// path is not passed.
func (s oggStrategy) Args(tags Tags, output string) ([]string, error) {
	if err := tags.Validate(); err != nil {
		return nil, err
	}
	if err := checkOutput(output); err != nil {
		return nil, err
	}

	quality := s.quality
	if quality < -1 || quality > 10 {
		quality = 10
	}
	args := []string{"-Q", "-q", strconv.Itoa(quality),
		"-a", tags.Artist,
		"-l", tags.Album,
		"-t", tags.Title,
		"-N", tags.track(),
	}
	if tags.Year != "" {
		args = append(args, "-d", tags.Year)
	}
	if disc := tags.disc(); disc != "" {
		args = append(args, "-c", "DISCNUMBER="+disc)
	}
	if total := tags.discCount(); total != "" {
		args = append(args, "-c", "TOTALDISCS="+total)
	}
	return append(args, "-o", output, "-"), nil
}
