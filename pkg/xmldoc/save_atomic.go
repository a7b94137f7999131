// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package xmldoc

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/google/renameio/v2"

	"github.com/g2rain/archrel/pkg/types"
)

// writeAtomic writes doc through a pending file in the target directory and
// renames it over path after an fsync.
func writeAtomic(doc *etree.Document, path types.FilesystemPath, perm fs.FileMode) error {
	pendingFile, err := renameio.NewPendingFile(path.String(), renameio.WithPermissions(perm))
	if err != nil {
		return fmt.Errorf("create pending file for %s: %w", path, err)
	}
	defer func() {
		// No-op once CloseAtomicallyReplace succeeded.
		if err := pendingFile.Cleanup(); err != nil {
			slog.Debug("cleanup pending file", "path", path, "error", err)
		}
	}()

	if _, err := doc.WriteTo(pendingFile); err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
