// SPDX-License-Identifier: MPL-2.0

package archetype

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/g2rain/archrel/pkg/types"
	"github.com/g2rain/archrel/pkg/xmldoc"
)

// DescriptorNamespace is the namespace of archetype-descriptor 1.2.0 documents.
const DescriptorNamespace = "https://maven.apache.org/plugins/maven-archetype-plugin/archetype-descriptor/1.2.0"

const (
	elemFileSets  = "fileSets"
	elemFileSet   = "fileSet"
	elemDirectory = "directory"
	elemModules   = "modules"
	elemModule    = "module"
)

// DefaultExcludedDirectories is the denylist applied when none is configured.
var DefaultExcludedDirectories = []string{".github", ".idea", ".vscode", ".settings", "target"}

var (
	// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid exclude pattern")
	// ErrEmptyDocument is returned when a descriptor has no root element.
	ErrEmptyDocument = errors.New("descriptor has no root element")
)

type (
	// Option configures a Pruner.
	Option func(*Pruner)

	// Pruner removes denylisted fileSets from archetype descriptors.
	Pruner struct {
		excluded []string
		patterns []string
		logger   *slog.Logger
	}

	// Report lists what a prune pass removed.
	Report struct {
		// Removed holds the directory of every removed fileSet, in document order.
		Removed []string
		// Kept counts the fileSets left in the descriptor.
		Kept int
	}

	// FileOptions controls PruneFile output.
	FileOptions struct {
		// Save controls serialization of the rewritten descriptor.
		Save xmldoc.SaveOptions
		// DryRunOutput, when set, receives the result instead of the input file.
		DryRunOutput io.Writer
	}

	// InvalidPatternError is returned by NewPruner for a malformed glob pattern.
	InvalidPatternError struct {
		Pattern string
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q", e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// WithExcludedDirectories replaces the default denylist of directory prefixes.
func WithExcludedDirectories(dirs []string) Option {
	return func(p *Pruner) {
		p.excluded = slices.Clone(dirs)
	}
}

// WithAdditionalExcludedDirectories appends prefixes to the denylist.
func WithAdditionalExcludedDirectories(dirs []string) Option {
	return func(p *Pruner) {
		p.excluded = append(p.excluded, dirs...)
	}
}

// WithExcludePatterns adds doublestar glob patterns matched against the
// whole directory value (e.g. "**/node_modules").
func WithExcludePatterns(patterns []string) Option {
	return func(p *Pruner) {
		p.patterns = append(p.patterns, patterns...)
	}
}

// WithLogger sets the logger used for per-entry debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pruner) {
		p.logger = logger
	}
}

// NewPruner creates a Pruner using DefaultExcludedDirectories unless an
// option replaces them.
func NewPruner(opts ...Option) (*Pruner, error) {
	p := &Pruner{
		excluded: slices.Clone(DefaultExcludedDirectories),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, pattern := range p.patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &InvalidPatternError{Pattern: pattern}
		}
	}
	p.excluded = slices.DeleteFunc(p.excluded, func(s string) bool { return s == "" })

	return p, nil
}

// ExcludedDirectories returns a copy of the active denylist.
func (p *Pruner) ExcludedDirectories() []string {
	return slices.Clone(p.excluded)
}

// Matches reports whether a fileSet with this directory would be removed.
// The empty directory never matches.
func (p *Pruner) Matches(dir string) bool {
	if dir == "" {
		return false
	}
	for _, prefix := range p.excluded {
		if dir == prefix || strings.HasPrefix(dir, prefix) {
			return true
		}
	}
	for _, pattern := range p.patterns {
		if ok, _ := doublestar.Match(pattern, dir); ok {
			return true
		}
	}
	return false
}

// Prune removes matching fileSets from doc in place, including those of
// nested modules. FileSets without a directory are kept; the remaining
// entries keep their order.
func (p *Pruner) Prune(doc *etree.Document) (*Report, error) {
	root := doc.Root()
	if root == nil {
		return nil, ErrEmptyDocument
	}
	report := &Report{}

	ns := root.NamespaceURI()
	if ns != DescriptorNamespace {
		p.logger.Warn("unexpected archetype descriptor namespace", "namespace", ns, "expected", DescriptorNamespace)
	}

	p.pruneContainer(root, ns, report)
	return report, nil
}

// pruneContainer handles the fileSets of a descriptor root or a module, then
// recurses into its modules.
func (p *Pruner) pruneContainer(container *etree.Element, ns string, report *Report) {
	for _, fileSets := range xmldoc.Children(container, elemFileSets, ns) {
		for _, fileSet := range xmldoc.Children(fileSets, elemFileSet, ns) {
			dir := xmldoc.TrimmedText(xmldoc.Child(fileSet, elemDirectory, ns))
			if !p.Matches(dir) {
				report.Kept++
				continue
			}
			p.logger.Debug("removing fileSet", "directory", dir)
			xmldoc.Remove(fileSets, fileSet)
			report.Removed = append(report.Removed, dir)
		}
	}

	for _, modules := range xmldoc.Children(container, elemModules, ns) {
		for _, module := range xmldoc.Children(modules, elemModule, ns) {
			p.pruneContainer(module, ns, report)
		}
	}
}

// PruneFile loads the descriptor at path, prunes it and writes it back in
// place (or to opts.DryRunOutput). The descriptor is always rewritten, even
// when nothing was removed, so its declaration is normalized.
func (p *Pruner) PruneFile(ctx context.Context, path types.FilesystemPath, opts FileOptions) (*Report, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	doc, err := xmldoc.Load(path)
	if err != nil {
		return nil, err
	}

	report, err := p.Prune(doc)
	if err != nil {
		return nil, &xmldoc.ParseError{Path: path, Cause: err}
	}

	if opts.DryRunOutput != nil {
		return report, xmldoc.Write(opts.DryRunOutput, doc, opts.Save)
	}
	if err := xmldoc.Save(ctx, doc, path, opts.Save); err != nil {
		return nil, err
	}
	return report, nil
}
