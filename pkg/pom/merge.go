// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/beevik/etree"

	"github.com/g2rain/archrel/pkg/fspath"
	"github.com/g2rain/archrel/pkg/types"
	"github.com/g2rain/archrel/pkg/xmldoc"
)

const (
	// Namespace is the Maven POM 4.0.0 namespace.
	Namespace = "http://maven.apache.org/POM/4.0.0"
	// ReleaseProfileID is the only profile id merged from a fragment.
	ReleaseProfileID = "release"
	// DefaultPluginGroupID is the groupId Maven assumes when a plugin omits it.
	DefaultPluginGroupID = "org.apache.maven.plugins"

	// ActionUpdated means an existing element's text was overwritten.
	ActionUpdated Action = "updated"
	// ActionInserted means a new element was placed next to its anchor.
	ActionInserted Action = "inserted"
	// ActionReplaced means an existing element was swapped for the fragment's.
	ActionReplaced Action = "replaced"
	// ActionAppended means a new element was added at the end of its parent.
	ActionAppended Action = "appended"
	// ActionSkipped means the fragment entry was ignored.
	ActionSkipped Action = "skipped"

	// RolePOM identifies the target pom.xml in a LoadError.
	RolePOM DocumentRole = "pom"
	// RoleFragment identifies the fragment in a LoadError.
	RoleFragment DocumentRole = "fragment"
)

// ErrEmptyDocument is returned when an input document has no root element.
var ErrEmptyDocument = errors.New("document has no root element")

type (
	// Action describes what a merge did to one section entry.
	Action string

	// DocumentRole tells which input of a merge an error refers to.
	DocumentRole string

	// SectionResult records one merge action.
	SectionResult struct {
		Section string
		Action  Action
		// Detail names the property, plugin or profile the action applies to.
		Detail string
	}

	// Report lists the actions of a merge in the order they were applied.
	Report struct {
		// NamespaceAdded is set when the POM root had no namespace and the
		// POM namespace was declared on it.
		NamespaceAdded bool
		Sections       []SectionResult
	}

	// LoadError wraps a failure to load one of the merge inputs.
	LoadError struct {
		Role DocumentRole
		Err  error
	}

	// Option configures a Merger.
	Option func(*Merger)

	// Merger merges release fragments into POM documents.
	Merger struct {
		logger *slog.Logger
	}

	// FileOptions controls MergeFile output.
	FileOptions struct {
		// Save controls serialization of the merged POM.
		Save xmldoc.SaveOptions
		// DryRunOutput, when set, receives the result instead of the POM file.
		DryRunOutput io.Writer
	}

	// Coordinates identify a plugin by groupId and artifactId.
	Coordinates struct {
		GroupID    string
		ArtifactID string
	}

	// merge holds the state of a single Merge call.
	merge struct {
		root   *etree.Element
		ns     string
		space  string
		report *Report
		logger *slog.Logger
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Role, e.Err)
}

// Unwrap returns the underlying load error.
func (e *LoadError) Unwrap() error { return e.Err }

// String returns "groupId:artifactId".
func (c Coordinates) String() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Changed reports whether the merge modified anything.
func (r *Report) Changed() bool {
	if r.NamespaceAdded {
		return true
	}
	return slices.ContainsFunc(r.Sections, func(s SectionResult) bool {
		return s.Action != ActionSkipped
	})
}

func (r *Report) add(section string, action Action, detail string) {
	r.Sections = append(r.Sections, SectionResult{Section: section, Action: action, Detail: detail})
}

// WithLogger sets the logger used for per-section debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge applies the fragment's sections to pomDoc in place. The fragment is
// never modified. Its sections are the children of its root element, whether
// that root is <fragment> or anything else.
func (mg *Merger) Merge(pomDoc, fragmentDoc *etree.Document) (*Report, error) {
	root := pomDoc.Root()
	if root == nil {
		return nil, &LoadError{Role: RolePOM, Err: ErrEmptyDocument}
	}
	fragRoot := fragmentDoc.Root()
	if fragRoot == nil {
		return nil, &LoadError{Role: RoleFragment, Err: ErrEmptyDocument}
	}

	report := &Report{}
	if root.NamespaceURI() == "" && root.Space == "" {
		declareDefaultNamespace(root)
		report.NamespaceAdded = true
	}

	m := &merge{
		root:   root,
		ns:     root.NamespaceURI(),
		space:  root.Space,
		report: report,
		logger: mg.logger,
	}

	for _, r := range rules {
		frag := xmldoc.ChildLocal(fragRoot, r.section)
		if frag == nil {
			continue
		}
		r.apply(m, r, frag)
	}

	for _, s := range report.Sections {
		mg.logger.Debug("merged section", "section", s.Section, "action", string(s.Action), "detail", s.Detail)
	}
	return report, nil
}

// MergeFile merges the fragment at fragmentPath into the POM at pomPath and
// writes the POM back in place (or to opts.DryRunOutput). Both files must
// exist before either is parsed.
func (mg *Merger) MergeFile(ctx context.Context, pomPath, fragmentPath types.FilesystemPath, opts FileOptions) (*Report, error) {
	inputs := []struct {
		role DocumentRole
		path types.FilesystemPath
	}{
		{RolePOM, pomPath},
		{RoleFragment, fragmentPath},
	}
	for _, in := range inputs {
		if err := in.path.Validate(); err != nil {
			return nil, &LoadError{Role: in.role, Err: err}
		}
		ok, err := fspath.IsFile(in.path)
		if err != nil {
			return nil, &LoadError{Role: in.role, Err: err}
		}
		if !ok {
			return nil, &LoadError{Role: in.role, Err: &xmldoc.FileNotFoundError{Path: in.path}}
		}
	}

	pomDoc, err := xmldoc.Load(pomPath)
	if err != nil {
		return nil, &LoadError{Role: RolePOM, Err: err}
	}
	fragmentDoc, err := xmldoc.Load(fragmentPath)
	if err != nil {
		return nil, &LoadError{Role: RoleFragment, Err: err}
	}

	report, err := mg.Merge(pomDoc, fragmentDoc)
	if err != nil {
		return nil, err
	}

	if opts.DryRunOutput != nil {
		return report, xmldoc.Write(opts.DryRunOutput, pomDoc, opts.Save)
	}
	if err := xmldoc.Save(ctx, pomDoc, pomPath, opts.Save); err != nil {
		return nil, err
	}
	return report, nil
}

// declareDefaultNamespace puts xmlns="Namespace" first among root's attributes.
func declareDefaultNamespace(root *etree.Element) {
	root.CreateAttr("xmlns", Namespace)
	n := len(root.Attr)
	attr := root.Attr[n-1]
	root.Attr = slices.Insert(root.Attr[:n-1], 0, attr)
}

// fragmentCoordinates reads a fragment plugin's identity. Plugins without an
// artifactId cannot be identified.
func fragmentCoordinates(plugin *etree.Element) (Coordinates, bool) {
	return coordinates(
		xmldoc.ChildLocal(plugin, "groupId"),
		xmldoc.ChildLocal(plugin, "artifactId"),
	)
}

func coordinates(groupID, artifactID *etree.Element) (Coordinates, bool) {
	c := Coordinates{
		GroupID:    xmldoc.TrimmedText(groupID),
		ArtifactID: xmldoc.TrimmedText(artifactID),
	}
	if c.GroupID == "" {
		c.GroupID = DefaultPluginGroupID
	}
	return c, c.ArtifactID != ""
}

func (m *merge) child(parent *etree.Element, local string) *etree.Element {
	return xmldoc.Child(parent, local, m.ns)
}

func (m *merge) newElement(local string) *etree.Element {
	el := etree.NewElement(local)
	el.Space = m.space
	return el
}

func (m *merge) copy(frag *etree.Element) *etree.Element {
	return xmldoc.CopyInto(frag, m.space)
}

// ensureChild returns parent's child named local, appending an empty one
// when missing.
func (m *merge) ensureChild(parent *etree.Element, local string) *etree.Element {
	if el := m.child(parent, local); el != nil {
		return el
	}
	el := m.newElement(local)
	xmldoc.Append(parent, el)
	m.logger.Debug("created element", "element", local)
	return el
}

// place inserts el relative to the rule's anchor, or at the end of the
// project when the rule has no anchor or the anchor is missing.
func (m *merge) place(r rule, el *etree.Element) Action {
	var anchor *etree.Element
	if r.anchor != "" {
		anchor = m.child(m.root, r.anchor)
	}
	if anchor == nil {
		xmldoc.Append(m.root, el)
		return ActionAppended
	}

	switch r.placement {
	case placeBefore:
		xmldoc.InsertBefore(m.root, anchor, el)
	default:
		xmldoc.InsertAfter(m.root, anchor, el)
	}
	return ActionInserted
}

func (m *merge) findPlugin(plugins *etree.Element, want Coordinates) *etree.Element {
	for _, plugin := range xmldoc.Children(plugins, "plugin", m.ns) {
		got, ok := coordinates(m.child(plugin, "groupId"), m.child(plugin, "artifactId"))
		if ok && got == want {
			return plugin
		}
	}
	return nil
}

func (m *merge) findProfile(profiles *etree.Element, id string) *etree.Element {
	for _, profile := range xmldoc.Children(profiles, "profile", m.ns) {
		if xmldoc.TrimmedText(m.child(profile, "id")) == id {
			return profile
		}
	}
	return nil
}
