// SPDX-License-Identifier: MPL-2.0

// Package archetype prunes Maven archetype descriptors (archetype-metadata.xml).
//
// archetype:create-from-project records every directory of the source project
// as a fileSet, including IDE settings, CI workflows and build output. The
// Pruner removes the fileSets whose directory equals or starts with a
// denylisted prefix, or matches a doublestar glob pattern, so generated
// projects do not inherit them.
package archetype
