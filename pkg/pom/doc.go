// SPDX-License-Identifier: MPL-2.0

// Package pom merges a release configuration fragment into a Maven pom.xml.
//
// The merge is driven by a fixed, ordered table of section rules. Each rule
// names a top-level section, the anchor element it is placed relative to and
// the strategy used when the section is present in the fragment: overwrite
// text, replace the whole section, merge keyed properties, or merge keyed
// children (plugins, the release profile). Sections missing from the fragment
// are skipped. When an anchor is missing from the POM a new section is
// appended at the end of the project element and an existing one is replaced
// where it stands. Merging the same fragment twice yields the same bytes as
// merging it once.
package pom
