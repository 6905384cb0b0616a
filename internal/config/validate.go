package config

import (
	"errors"
	"fmt"

	"bisub/internal/subtitles"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if _, err := subtitles.ParsePolicy(c.Alignment.Policy); err != nil {
		return fmt.Errorf("alignment.policy: %w", err)
	}
	if c.Alignment.Tolerance < 0 {
		return errors.New("alignment.tolerance: must be >= 0")
	}
	languages := []struct {
		key  string
		code string
	}{
		{"alignment.track_a_language", c.Alignment.TrackALanguage},
		{"alignment.track_b_language", c.Alignment.TrackBLanguage},
	}
	for _, lang := range languages {
		if len(lang.code) != 2 {
			return fmt.Errorf("%s: unrecognized language %q", lang.key, lang.code)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
