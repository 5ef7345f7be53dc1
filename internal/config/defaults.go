package config

const (
	defaultOutputDir       = "~/Music"
	defaultStateDir        = "~/.local/share/cdrip"
	defaultLogDir          = "~/.local/share/cdrip/logs"
	defaultDevice          = "/dev/sr0"
	defaultParanoiaBinary  = "cdparanoia"
	defaultScanTimeout     = 60
	defaultFormat          = "flac"
	defaultFLACBinary      = "flac"
	defaultLAMEBinary      = "lame"
	defaultOggEncBinary    = "oggenc"
	defaultFLACCompression = 8
	defaultMP3Bitrate      = 320
	defaultOggQuality      = 10
	defaultMusicBrainzURL  = "https://musicbrainz.org/ws/2"
	defaultUserAgent       = "cdrip/0.3.0 ( https://github.com/cdripper/cdrip )"
	defaultLookupTimeout   = 15
	defaultCoverArtURL     = "https://coverartarchive.org"
	defaultCoverArtSize    = 250
	defaultCoverArtTimeout = 15
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 60
)

// Environment overrides applied after the config file is read.
const (
	EnvDevice    = "CDRIP_DEVICE"
	EnvOutputDir = "CDRIP_OUTPUT_DIR"
	EnvNtfyTopic = "CDRIP_NTFY_TOPIC"
)

var validFormats = []string{"flac", "wav", "mp3", "ogg"}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Drive: Drive{
			Device:         defaultDevice,
			ParanoiaBinary: defaultParanoiaBinary,
			ScanTimeout:    defaultScanTimeout,
			AutoEject:      true,
		},
		Encoding: Encoding{
			DefaultFormat:   defaultFormat,
			FLACBinary:      defaultFLACBinary,
			LAMEBinary:      defaultLAMEBinary,
			OggEncBinary:    defaultOggEncBinary,
			FLACCompression: defaultFLACCompression,
			MP3Bitrate:      defaultMP3Bitrate,
			OggQuality:      defaultOggQuality,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:   defaultMusicBrainzURL,
			UserAgent: defaultUserAgent,
			Timeout:   defaultLookupTimeout,
		},
		CoverArt: CoverArt{
			Enabled: true,
			BaseURL: defaultCoverArtURL,
			Size:    defaultCoverArtSize,
			Timeout: defaultCoverArtTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Rip:            true,
			Errors:         true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
