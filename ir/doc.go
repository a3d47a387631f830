// Package ir provides the in-memory tree for XML documents edited by patch
// operations.
//
// # Node Structure
//
// A Node is one of:
//
//   - DocumentType: the document, owning at most one element plus comments
//   - ElementType: an element with attributes and ordered children
//   - AttrType: an attribute; it lives in its owner's Attrs, never in Children
//   - TextType: a run of character data
//   - CommentType: a comment
//
// Every attached node knows its Parent and its ParentIndex, which indexes
// Attrs for attributes and Children otherwise. Tree edits (AppendChild,
// InsertBefore, InsertAfter, Remove) keep both fields consistent; direct
// slice surgery on Children or Attrs does not.
//
// Nodes are not safe for concurrent mutation. Clone a tree per goroutine.
//
// # Text
//
// TextContent concatenates the direct text children of a node, while
// InnerText is the XPath string-value: all descendant character data.
// SetTextContent replaces only the direct text children and leaves element
// children in place.
//
// # XPath
//
// NewNavigator adapts a tree to github.com/antchfx/xpath so that compiled
// expressions can be evaluated against it; see package query.
//
// # Paths
//
// Path returns an absolute location path such as "/Defs/ThingDef[2]/@Name",
// which is itself a valid XPath selecting the node.
package ir
