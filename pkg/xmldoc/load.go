// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/g2rain/archrel/pkg/fspath"
	"github.com/g2rain/archrel/pkg/types"
)

var (
	// ErrFileNotFound is the sentinel error wrapped by FileNotFoundError.
	ErrFileNotFound = errors.New("file not found")
	// ErrMalformedXML is the sentinel error wrapped by ParseError.
	ErrMalformedXML = errors.New("malformed XML")
)

type (
	// FileNotFoundError is returned when an input path does not exist or is a directory.
	FileNotFoundError struct {
		Path types.FilesystemPath
	}

	// ParseError is returned when an input is not a well-formed XML document
	// with a root element.
	ParseError struct {
		Path  types.FilesystemPath
		Cause error
	}
)

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

// Unwrap returns ErrFileNotFound for errors.Is() compatibility.
func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrMalformedXML for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrMalformedXML }

// Load reads and parses the XML document at path. Non UTF-8 inputs are
// decoded according to their declaration and written back as UTF-8.
func Load(path types.FilesystemPath) (*etree.Document, error) {
	ok, err := fspath.IsFile(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &FileNotFoundError{Path: path}
	}

	doc := newDocument()
	if err := doc.ReadFromFile(path.String()); err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Path: path, Cause: errors.New("no root element")}
	}
	return doc, nil
}

// Parse parses an in-memory document; name is used in error messages.
func Parse(data []byte, name string) (*etree.Document, error) {
	return read(bytes.NewReader(data), types.FilesystemPath(name))
}

func read(r io.Reader, name types.FilesystemPath) (*etree.Document, error) {
	doc := newDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &ParseError{Path: name, Cause: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Path: name, Cause: errors.New("no root element")}
	}
	return doc, nil
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.PreserveCData = true
	return doc
}
