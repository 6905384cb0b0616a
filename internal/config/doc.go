// Package config loads, normalizes, and validates bisub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BISUB_LOG_LEVEL. The alignment and matching sections are plain values: the
// CLI reads them and passes explicit options into the subtitles and episodeid
// packages, which never consult configuration themselves.
package config
