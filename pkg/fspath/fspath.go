// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and os.Stat
// that accept and return types.FilesystemPath, so command handlers can pass
// user-supplied paths around without dropping back to bare strings.
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/g2rain/archrel/pkg/types"
)

// JoinStr joins a typed base path with raw string segments
// (e.g., a config directory and "config.cue").
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// IsFile reports whether p exists and is a regular file (or a symlink to one).
// Any stat error other than "not exist" is returned to the caller.
func IsFile(p types.FilesystemPath) (bool, error) {
	info, err := os.Stat(string(p))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", p, err)
	}
	return !info.IsDir(), nil
}
