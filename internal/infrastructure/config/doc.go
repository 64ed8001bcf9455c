// Package config loads and validates Hearth Core configuration.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// HEARTH_* environment variable overrides. Load returns a fully validated
// Config; components receive only the section they need (config.MQTTConfig,
// config.HistoryConfig, ...) rather than the whole structure.
package config
