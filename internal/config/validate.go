package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateServices(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return fmt.Errorf("paths.output_dir must be set (or set %s)", EnvOutputDir)
	}
	return nil
}

func (c *Config) validateDrive() error {
	if c.Drive.Device == "" {
		return fmt.Errorf("drive.device must be set (or set %s)", EnvDevice)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if !slices.Contains(validFormats, c.Encoding.DefaultFormat) {
		return fmt.Errorf("encoding.default_format must be one of %s, got %q", strings.Join(validFormats, ", "), c.Encoding.DefaultFormat)
	}
	if c.Encoding.FLACCompression < 0 || c.Encoding.FLACCompression > 8 {
		return errors.New("encoding.flac_compression must be between 0 and 8")
	}
	if c.Encoding.MP3Bitrate < 8 || c.Encoding.MP3Bitrate > 320 {
		return errors.New("encoding.mp3_bitrate must be between 8 and 320 (kbps)")
	}
	if c.Encoding.OggQuality < -1 || c.Encoding.OggQuality > 10 {
		return errors.New("encoding.ogg_quality must be between -1 and 10")
	}
	return nil
}

func (c *Config) validateServices() error {
	if err := validateHTTPURL("musicbrainz.base_url", c.MusicBrainz.BaseURL); err != nil {
		return err
	}
	if c.CoverArt.Enabled {
		if err := validateHTTPURL("cover_art.base_url", c.CoverArt.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}

func validateHTTPURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}
