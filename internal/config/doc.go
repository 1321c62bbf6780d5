// Package config loads tailf's optional TOML configuration file.
//
// # Overview
//
// The file supplies defaults for the command-line flags: how many lines to
// show, how often follow mode polls, whether output is styled, and where the
// resume store lives. Flags that are set explicitly always win.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/tailf/config.toml
//  3. If the file doesn't exist, use defaults
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # TOML Format
//
//	lines = 10
//	rate_hz = 20
//	color = false
//	highlight = false
//	theme = "Nightfox"
//	state_db = "~/.local/state/tailf/offsets.db"
//	log_level = "warn"
//	wait_max = "30s"
//
// All fields are optional. Tilde expansion is performed for state_db.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and an unparsable wait_max. Parse
// failures mention "parse config".
package config
