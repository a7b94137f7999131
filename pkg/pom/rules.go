// SPDX-License-Identifier: MPL-2.0

package pom

import (
	"github.com/beevik/etree"

	"github.com/g2rain/archrel/pkg/xmldoc"
)

const (
	placeAfter placement = iota
	placeBefore
)

type (
	// placement positions a new section relative to its anchor.
	placement int

	// strategy applies the fragment section frag to the POM held by m.
	strategy func(m *merge, r rule, frag *etree.Element)

	rule struct {
		section   string
		anchor    string
		placement placement
		apply     strategy
	}
)

// rules is applied in order; later anchors may be sections inserted by
// earlier rules.
var rules = []rule{
	{section: "name", anchor: "description", placement: placeBefore, apply: overwriteOrInsert},
	{section: "description", apply: overwriteOnly},
	{section: "url", anchor: "description", placement: placeAfter, apply: overwriteOrInsert},
	{section: "scm", anchor: "url", placement: placeAfter, apply: replaceSection},
	{section: "developers", anchor: "scm", placement: placeAfter, apply: replaceSection},
	{section: "licenses", anchor: "developers", placement: placeAfter, apply: replaceSection},
	{section: "distributionManagement", anchor: "licenses", placement: placeAfter, apply: replaceSection},
	{section: "properties", anchor: "distributionManagement", placement: placeAfter, apply: mergeProperties},
	{section: "build", apply: mergePlugins},
	{section: "profiles", apply: mergeReleaseProfile},
}

// Sections returns the top-level section names in merge order.
func Sections() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.section
	}
	return names
}

// overwriteOrInsert copies the fragment text into the existing element, or
// inserts a new text element next to the anchor.
func overwriteOrInsert(m *merge, r rule, frag *etree.Element) {
	if el := m.child(m.root, r.section); el != nil {
		el.SetText(frag.Text())
		m.report.add(r.section, ActionUpdated, "")
		return
	}

	el := m.newElement(r.section)
	el.SetText(frag.Text())
	m.report.add(r.section, m.place(r, el), "")
}

// overwriteOnly updates the element text when the POM already has it.
func overwriteOnly(m *merge, r rule, frag *etree.Element) {
	el := m.child(m.root, r.section)
	if el == nil {
		m.report.add(r.section, ActionSkipped, "not present in POM")
		return
	}
	el.SetText(frag.Text())
	m.report.add(r.section, ActionUpdated, "")
}

// replaceSection drops the existing section and inserts a fresh copy of the
// fragment's next to the anchor. Without an anchor an existing section is
// replaced where it stands.
func replaceSection(m *merge, r rule, frag *etree.Element) {
	el := m.child(m.root, r.section)
	switch {
	case el == nil:
		m.report.add(r.section, m.place(r, m.copy(frag)), "")
		return
	case m.child(m.root, r.anchor) == nil:
		xmldoc.ReplaceAt(m.root, el, m.copy(frag))
	default:
		xmldoc.Remove(m.root, el)
		m.place(r, m.copy(frag))
	}
	m.report.add(r.section, ActionReplaced, "")
}

// mergeProperties overwrites same-named keys and appends new ones in
// fragment order. Existing keys keep their position.
func mergeProperties(m *merge, r rule, frag *etree.Element) {
	props := m.child(m.root, r.section)
	if props == nil {
		props = m.newElement(r.section)
		m.report.add(r.section, m.place(r, props), "")
	}

	for _, prop := range frag.ChildElements() {
		if el := m.child(props, prop.Tag); el != nil {
			el.SetText(prop.Text())
			m.report.add(r.section, ActionUpdated, prop.Tag)
			continue
		}
		el := m.newElement(prop.Tag)
		el.SetText(prop.Text())
		xmldoc.Append(props, el)
		m.report.add(r.section, ActionAppended, prop.Tag)
	}
}

// mergePlugins replaces plugins with the same coordinates in place and
// appends the rest to build/plugins.
func mergePlugins(m *merge, r rule, frag *etree.Element) {
	fragPlugins := xmldoc.ChildLocal(frag, "plugins")
	if fragPlugins == nil {
		return
	}

	build := m.ensureChild(m.root, r.section)
	plugins := m.ensureChild(build, "plugins")
	const section = "build/plugins"

	for _, plugin := range xmldoc.ChildrenLocal(fragPlugins, "plugin") {
		coord, ok := fragmentCoordinates(plugin)
		if !ok {
			m.report.add(section, ActionSkipped, "plugin without artifactId")
			continue
		}

		if existing := m.findPlugin(plugins, coord); existing != nil {
			xmldoc.ReplaceAt(plugins, existing, m.copy(plugin))
			m.report.add(section, ActionReplaced, coord.String())
			continue
		}
		xmldoc.Append(plugins, m.copy(plugin))
		m.report.add(section, ActionAppended, coord.String())
	}
}

// mergeReleaseProfile ensures the POM has a profiles container, then merges
// the fragment's first profile when its id is release: an existing release
// profile is replaced in place, otherwise the profile is appended. Any other
// fragment profile is ignored.
func mergeReleaseProfile(m *merge, r rule, frag *etree.Element) {
	fragProfiles := xmldoc.ChildrenLocal(frag, "profile")

	profiles := m.child(m.root, r.section)
	if profiles == nil {
		profiles = m.ensureChild(m.root, r.section)
		if len(fragProfiles) == 0 {
			m.report.add(r.section, ActionAppended, "")
		}
	}
	if len(fragProfiles) == 0 {
		return
	}

	profile := fragProfiles[0]
	id := profileID(profile)
	existing := m.findProfile(profiles, id)
	switch {
	case id != ReleaseProfileID:
		m.report.add(r.section, ActionSkipped, "profile "+quoteOrEmpty(id))
	case existing != nil:
		xmldoc.ReplaceAt(profiles, existing, m.copy(profile))
		m.report.add(r.section, ActionReplaced, id)
	default:
		xmldoc.Append(profiles, m.copy(profile))
		m.report.add(r.section, ActionAppended, id)
	}

	for _, ignored := range fragProfiles[1:] {
		m.report.add(r.section, ActionSkipped, "profile "+quoteOrEmpty(profileID(ignored)))
	}
}

func profileID(profile *etree.Element) string {
	return xmldoc.TrimmedText(xmldoc.ChildLocal(profile, "id"))
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "without id"
	}
	return `"` + s + `"`
}
