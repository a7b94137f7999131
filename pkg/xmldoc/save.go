// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/beevik/etree"

	"github.com/g2rain/archrel/pkg/types"
)

// Declaration is the processing instruction written at the top of every
// saved document.
const Declaration = `version="1.0" encoding="UTF-8"`

// SaveOptions controls how a document is serialized.
type SaveOptions struct {
	// Indent reindents the whole document with this many spaces when > 0.
	Indent int
	// Atomic writes through a temporary file renamed over the target.
	Atomic bool
}

// Save writes doc to path, replacing the file. The context is checked before
// anything touches the disk so an interrupted run leaves the input unmodified.
func Save(ctx context.Context, doc *etree.Document, path types.FilesystemPath, opts SaveOptions) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s canceled: %w", path, err)
	}

	prepare(doc, opts)

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path.String()); err == nil {
		perm = info.Mode().Perm()
	}

	if opts.Atomic {
		return writeAtomic(doc, path, perm)
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}
	if err := os.WriteFile(path.String(), data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write serializes doc to w with the same preparation Save applies.
func Write(w io.Writer, doc *etree.Document, opts SaveOptions) error {
	prepare(doc, opts)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	return nil
}

func prepare(doc *etree.Document, opts SaveOptions) {
	if opts.Indent > 0 {
		doc.Indent(opts.Indent)
	}
	EnsureDeclaration(doc)
}

// EnsureDeclaration makes the first token of doc an XML declaration stating
// UTF-8, rewriting an existing declaration in place.
func EnsureDeclaration(doc *etree.Document) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = Declaration
			return
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst("xml", Declaration))
	doc.InsertChildAt(1, etree.NewText("\n"))
}
