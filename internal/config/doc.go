// Package config loads, normalizes, and validates cdrip configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, loads a .env file from the working directory, and honours
// environment overrides such as CDRIP_DEVICE. The Config type centralizes
// every knob the CLI, the job orchestrator, and the external clients need.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical enum values, and clear validation errors.
package config
