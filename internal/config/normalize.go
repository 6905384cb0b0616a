package config

import (
	"fmt"
	"os"
	"strings"

	"bisub/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAlignment()
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	fields := []struct {
		key   string
		value *string
	}{
		{"paths.data_dir", &c.Paths.DataDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.track_a_dir", &c.Paths.TrackADir},
		{"paths.track_b_dir", &c.Paths.TrackBDir},
		{"paths.video_dir", &c.Paths.VideoDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeAlignment() {
	c.Alignment.Policy = strings.ToLower(strings.TrimSpace(c.Alignment.Policy))
	if c.Alignment.Policy == "" {
		c.Alignment.Policy = defaultPolicy
	}
	if c.Alignment.Tolerance == 0 {
		c.Alignment.Tolerance = defaultTolerance
	}
	c.Alignment.TrackALanguage = normalizeLanguage(c.Alignment.TrackALanguage, defaultTrackALang)
	c.Alignment.TrackBLanguage = normalizeLanguage(c.Alignment.TrackBLanguage, defaultTrackBLang)
}

// normalizeLanguage maps codes, names, and filename tags to ISO 639-1.
// Unrecognized values are kept lowercased so Validate can report them.
func normalizeLanguage(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if code := language.ToISO2(value); code != "" {
		return code
	}
	return strings.ToLower(value)
}

func (c *Config) normalizeMatching() {
	c.Matching.SubtitleExtensions = normalizeExtensions(c.Matching.SubtitleExtensions, defaultSubtitleExtensions)
	c.Matching.VideoExtensions = normalizeExtensions(c.Matching.VideoExtensions, defaultVideoExtensions)
	markers := c.Matching.LanguageMarkers[:0]
	for _, marker := range c.Matching.LanguageMarkers {
		if marker = strings.TrimSpace(marker); marker != "" {
			markers = append(markers, marker)
		}
	}
	if len(markers) == 0 {
		markers = language.Markers(c.Alignment.TrackALanguage, c.Alignment.TrackBLanguage)
	}
	c.Matching.LanguageMarkers = markers
}

func normalizeExtensions(values, fallback []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv(logLevelEnvKey); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
