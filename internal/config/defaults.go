package config

const (
	defaultConfigPath   = "~/.config/bisub/config.toml"
	defaultDataDir      = "~/.local/share/bisub"
	defaultLogDir       = "~/.local/share/bisub/logs"
	defaultPolicy       = "a"
	defaultTolerance    = 0.5
	defaultTrackALang   = "zh"
	defaultTrackBLang   = "en"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultSeriesFilter = true
	logLevelEnvKey      = "BISUB_LOG_LEVEL"
)

var (
	defaultSubtitleExtensions = []string{".json"}
	defaultVideoExtensions    = []string{".mp4", ".mkv", ".avi", ".mov"}
	defaultLanguageMarkers    = []string{"中文", "西班牙语", "英语"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Alignment: Alignment{
			Policy:         defaultPolicy,
			Tolerance:      defaultTolerance,
			TrackALanguage: defaultTrackALang,
			TrackBLanguage: defaultTrackBLang,
		},
		Matching: Matching{
			SubtitleExtensions: append([]string(nil), defaultSubtitleExtensions...),
			VideoExtensions:    append([]string(nil), defaultVideoExtensions...),
			SeriesFilter:       defaultSeriesFilter,
			LanguageMarkers:    append([]string(nil), defaultLanguageMarkers...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
