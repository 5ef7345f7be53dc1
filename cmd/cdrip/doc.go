// Command cdrip rips audio CDs into FLAC, MP3, Ogg Vorbis or WAV files.
//
// It reads the disc's table of contents with cdparanoia, looks the disc up on
// MusicBrainz, lets the user confirm or choose a release (or enter metadata
// by hand), and streams each track from the extractor straight into the
// encoder. Configuration lives in ~/.config/cdrip/config.toml; run
// `cdrip config init` to create it and `cdrip doctor` to check the setup.
package main
