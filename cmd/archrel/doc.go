// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for archrel.
//
// The command tree is built per invocation by NewApp/App.Run and executed
// through fang. The prune and merge commands are thin wrappers around
// pkg/archetype and pkg/pom; this package owns flag parsing, configuration
// loading, logging setup and user-facing error rendering.
package cmd
