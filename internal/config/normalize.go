package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(EnvDevice); ok && strings.TrimSpace(value) != "" {
		c.Drive.Device = value
	}
	if value, ok := os.LookupEnv(EnvOutputDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if value, ok := os.LookupEnv(EnvNtfyTopic); ok {
		c.Notifications.NtfyTopic = value
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDrive()
	c.normalizeEncoding()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDrive() {
	c.Drive.Device = strings.TrimSpace(c.Drive.Device)
	c.Drive.ParanoiaBinary = strings.TrimSpace(c.Drive.ParanoiaBinary)
	if c.Drive.ParanoiaBinary == "" {
		c.Drive.ParanoiaBinary = defaultParanoiaBinary
	}
	if c.Drive.ScanTimeout <= 0 {
		c.Drive.ScanTimeout = defaultScanTimeout
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Encoding.DefaultFormat))
	if c.Encoding.DefaultFormat == "" {
		c.Encoding.DefaultFormat = defaultFormat
	}
	c.Encoding.FLACBinary = defaultString(c.Encoding.FLACBinary, defaultFLACBinary)
	c.Encoding.LAMEBinary = defaultString(c.Encoding.LAMEBinary, defaultLAMEBinary)
	c.Encoding.OggEncBinary = defaultString(c.Encoding.OggEncBinary, defaultOggEncBinary)
	if c.Encoding.MP3Bitrate == 0 {
		c.Encoding.MP3Bitrate = defaultMP3Bitrate
	}
}

func (c *Config) normalizeServices() {
	c.MusicBrainz.BaseURL = strings.TrimRight(defaultString(c.MusicBrainz.BaseURL, defaultMusicBrainzURL), "/")
	c.MusicBrainz.UserAgent = defaultString(c.MusicBrainz.UserAgent, defaultUserAgent)
	if c.MusicBrainz.Timeout <= 0 {
		c.MusicBrainz.Timeout = defaultLookupTimeout
	}
	c.CoverArt.BaseURL = strings.TrimRight(defaultString(c.CoverArt.BaseURL, defaultCoverArtURL), "/")
	if c.CoverArt.Timeout <= 0 {
		c.CoverArt.Timeout = defaultCoverArtTimeout
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
