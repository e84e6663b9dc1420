// Package config loads, normalizes, and validates lyricbar configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the XDG_CACHE_HOME fallback for
// the lyrics cache directory. Always obtain settings through this package so
// downstream code receives sanitized absolute paths and clear validation
// errors.
package config
