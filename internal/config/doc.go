// Package config loads, normalizes, and validates trackmatch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, seeds the environment from an optional .env
// file and honours TRACKMATCH_* overrides. The scoring weights live here as a
// [matching] section and are validated by the matching package itself, so a
// bad weight table is rejected before any track is scored.
package config
