// SPDX-License-Identifier: MPL-2.0

package xmldoc

import (
	"strings"

	"github.com/beevik/etree"
)

// Child returns the first child element of parent named local in namespace ns,
// or nil.
func Child(parent *etree.Element, local, ns string) *etree.Element {
	for _, el := range parent.ChildElements() {
		if el.Tag == local && el.NamespaceURI() == ns {
			return el
		}
	}
	return nil
}

// Children returns every child element of parent named local in namespace ns,
// in document order.
func Children(parent *etree.Element, local, ns string) []*etree.Element {
	var out []*etree.Element
	for _, el := range parent.ChildElements() {
		if el.Tag == local && el.NamespaceURI() == ns {
			out = append(out, el)
		}
	}
	return out
}

// ChildLocal returns the first child element of parent whose local name is
// local, ignoring namespaces. Fragments are namespace-free, so lookups into
// them use this.
func ChildLocal(parent *etree.Element, local string) *etree.Element {
	for _, el := range parent.ChildElements() {
		if el.Tag == local {
			return el
		}
	}
	return nil
}

// ChildrenLocal is the namespace-free counterpart of Children.
func ChildrenLocal(parent *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, el := range parent.ChildElements() {
		if el.Tag == local {
			out = append(out, el)
		}
	}
	return out
}

// TrimmedText returns the element's leading text with surrounding whitespace
// removed; nil elements yield "".
func TrimmedText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// CopyInto returns a deep copy of src in which every element carries the
// namespace prefix space ("" for a default namespace). Attributes, text,
// CDATA and comments are preserved; xmlns declarations on the source are
// dropped so the copy inherits the namespace of wherever it is inserted.
func CopyInto(src *etree.Element, space string) *etree.Element {
	dst := etree.NewElement(src.Tag)
	dst.Space = space

	for _, a := range src.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		dst.CreateAttr(a.FullKey(), a.Value)
	}

	for _, tok := range src.Child {
		switch t := tok.(type) {
		case *etree.Element:
			dst.AddChild(CopyInto(t, space))
		case *etree.CharData:
			if t.IsCData() {
				dst.AddChild(etree.NewCData(t.Data))
			} else {
				dst.AddChild(etree.NewText(t.Data))
			}
		case *etree.Comment:
			dst.AddChild(etree.NewComment(t.Data))
		}
	}
	return dst
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// InsertAfter inserts el into parent right after anchor, on its own line
// with the anchor's indentation.
func InsertAfter(parent, anchor, el *etree.Element) {
	ws := leadingSpace(anchor)
	pos := anchor.Index() + 1
	if ws != "" {
		parent.InsertChildAt(pos, etree.NewText(ws))
		pos++
	}
	parent.InsertChildAt(pos, el)
}

// InsertBefore inserts el into parent right before anchor, on its own line
// with the anchor's indentation.
func InsertBefore(parent, anchor, el *etree.Element) {
	ws := leadingSpace(anchor)
	pos := anchor.Index()
	parent.InsertChildAt(pos, el)
	if ws != "" {
		parent.InsertChildAt(pos+1, etree.NewText(ws))
	}
}

// Append adds el after the last child element of parent, or as its only
// child when parent has no element children.
func Append(parent, el *etree.Element) {
	children := parent.ChildElements()
	if len(children) == 0 {
		parent.AddChild(el)
		return
	}
	InsertAfter(parent, children[len(children)-1], el)
}

// Remove detaches el from parent together with the whitespace that indents it.
func Remove(parent, el *etree.Element) {
	idx := el.Index()
	parent.RemoveChildAt(idx)
	if idx > 0 {
		if isBlank(parent.Child[idx-1]) {
			parent.RemoveChildAt(idx - 1)
		}
	}
}

// ReplaceAt swaps old for el at the same position in parent, keeping the
// surrounding whitespace.
func ReplaceAt(parent, old, el *etree.Element) {
	idx := old.Index()
	parent.RemoveChildAt(idx)
	parent.InsertChildAt(idx, el)
}

// leadingSpace returns the whitespace token directly preceding el, if any.
func leadingSpace(el *etree.Element) string {
	parent := el.Parent()
	idx := el.Index()
	if parent == nil || idx <= 0 {
		return ""
	}
	if isBlank(parent.Child[idx-1]) {
		return parent.Child[idx-1].(*etree.CharData).Data
	}
	return ""
}

// isBlank reports whether tok is non-CDATA character data made only of
// whitespace. Tokens created with etree.NewText carry no whitespace flag, so
// the data is inspected directly.
func isBlank(tok etree.Token) bool {
	cd, ok := tok.(*etree.CharData)
	return ok && !cd.IsCData() && strings.TrimSpace(cd.Data) == ""
}
