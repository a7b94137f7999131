// SPDX-License-Identifier: MPL-2.0

//go:build windows

package xmldoc

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/beevik/etree"

	"github.com/g2rain/archrel/pkg/types"
)

// writeAtomic falls back to a plain write: renameio does not support Windows.
func writeAtomic(doc *etree.Document, path types.FilesystemPath, perm fs.FileMode) error {
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}
	if err := os.WriteFile(path.String(), data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
