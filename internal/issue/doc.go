// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the file involved and
// remediation hints. The issue catalog holds longer Markdown guides, rendered
// with glamour, that the CLI prints under fatal errors.
package issue
