// Package config loads the user-edited plant list.
//
// The config file lives in the per-user plant-paladin directory as
// config.toml. Each top-level table names a plant:
//
//	[monstera]
//	watering_interval = 7
//
// When no config file exists, Load writes DefaultConfigTOML to disk and
// returns the plants it describes. The program never edits the file
// afterwards.
//
// Documents are decoded with BurntSushi/toml and checked against an embedded
// JSON Schema before the typed decode, so a negative or non-integer interval
// is reported with the offending plant instead of a generic type error.
package config
