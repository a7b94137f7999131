// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Configuration files are validated against an embedded schema and decoded
// into a generic map so the caller can merge them over its defaults:
//
//  1. Compile the embedded schema and look up the root definition
//  2. Compile user data and unify it with the definition
//  3. Validate (non-concrete) and decode to map[string]any
//
// Errors carry the file name and a JSON-style path to the offending field.
package cueutil
