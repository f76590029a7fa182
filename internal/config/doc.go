// Package config loads codeintel configuration.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file (Load); a missing file is not an error
//  3. CODEINTEL_* environment variables (ApplyEnv)
//
// Example file:
//
//	[log]
//	level = "debug"
//
//	[cache]
//	fetch_size = 40
//
//	[lexer]
//	engine = "chroma"
package config
