// SPDX-License-Identifier: MPL-2.0

// Package xmldoc wraps beevik/etree with the handful of operations the
// archetype descriptor pruner and the POM merger share: loading with error
// classification, namespace-aware child lookup, copying a sub-tree into a
// target namespace, whitespace-aware insertion and removal, and writing the
// document back in place with an XML declaration.
//
// Insertion and removal are symmetric: InsertAfter places the new element on
// its own line with the anchor's indentation, and Remove takes that
// indentation away again, so remove-then-reinsert leaves the bytes unchanged.
package xmldoc
