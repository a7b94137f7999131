// SPDX-License-Identifier: MPL-2.0

// Package config handles archrel configuration using Viper with CUE as the file format.
//
// Configuration is looked up, in order, at the path given with --config, at
// ~/.config/archrel/config.cue (XDG equivalent on Linux,
// ~/Library/Application Support/archrel/config.cue on macOS,
// %APPDATA%\archrel\config.cue on Windows), and at ./archrel.cue. When none
// exists the defaults apply: the standard denylist of IDE and build
// directories, formatting preserved, atomic writes.
//
// Files are validated against the embedded config_schema.cue before being
// merged over the defaults.
package config
