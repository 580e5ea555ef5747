// Package config loads, normalizes, and validates kmzclean configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file. Relative output paths resolve
// against the work directory and the processing log resolves against the
// output directory, so a bare invocation reproduces the conventional
// processed_kmz/ layout without any file present.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
