// Package config loads, normalizes, and validates episodestats configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EPISODESTATS_LOG_LEVEL. The Config type centralizes the knobs the pipeline
// and CLI need: source decoding, cache lifetime, analytic thresholds, export
// targets, logging, and the optional metrics textfile.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical encoding names, and clear validation errors.
package config
