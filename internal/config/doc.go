// Package config holds linemark's configuration.
//
// Configuration is read from a TOML or YAML file, chosen by extension, on top
// of built-in defaults:
//
//	[engine]
//	burst_window = "500ms"
//	consolidate_delay = "50ms"
//	reanchor_delay = "100ms"
//
//	[authors]
//	a = "User A"
//	b = "User B"
//
//	[logging]
//	level = "info"
//	format = "text"
//
// Durations are written as Go duration strings.
package config
