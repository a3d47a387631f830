package ir

import (
	"fmt"
	"slices"
	"strings"
)

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int

	// Name is the qualified name of an element or attribute.
	Name string
	// Text holds the value of text, comment and attribute nodes.
	Text string

	Attrs    []*Node
	Children []*Node
}

func NewDocument() *Node {
	return &Node{Type: DocumentType}
}

func NewElement(name string) *Node {
	return &Node{Type: ElementType, Name: name}
}

func NewAttr(name, value string) *Node {
	return &Node{Type: AttrType, Name: name, Text: value}
}

func NewText(v string) *Node {
	return &Node{Type: TextType, Text: v}
}

func NewComment(v string) *Node {
	return &Node{Type: CommentType, Text: v}
}

// NodeName returns the DOM node name: the qualified name for elements and
// attributes, and "#text", "#comment" or "#document" otherwise.
func (n *Node) NodeName() string {
	switch n.Type {
	case TextType:
		return "#text"
	case CommentType:
		return "#comment"
	case DocumentType:
		return "#document"
	default:
		return n.Name
	}
}

// Prefix and LocalName split the qualified name at the first colon.
func (n *Node) Prefix() string {
	p, _, ok := strings.Cut(n.Name, ":")
	if !ok {
		return ""
	}
	return p
}

func (n *Node) LocalName() string {
	_, l, ok := strings.Cut(n.Name, ":")
	if !ok {
		return n.Name
	}
	return l
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

// CloneTo deep copies n into dst. dst is detached: its Parent is nil.
func (n *Node) CloneTo(dst *Node) *Node {
	dst.Type = n.Type
	dst.Name = n.Name
	dst.Text = n.Text
	dst.Parent = nil
	dst.ParentIndex = 0
	dst.Attrs = nil
	dst.Children = nil
	if len(n.Attrs) != 0 {
		dst.Attrs = make([]*Node, len(n.Attrs))
		for i, a := range n.Attrs {
			c := a.CloneTo(&Node{})
			c.Parent = dst
			c.ParentIndex = i
			dst.Attrs[i] = c
		}
	}
	if len(n.Children) != 0 {
		dst.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c := ch.CloneTo(&Node{})
			c.Parent = dst
			c.ParentIndex = i
			dst.Children[i] = c
		}
	}
	return dst
}

// Root returns the top-most ancestor of n, which is n itself when n is
// detached.
func (n *Node) Root() *Node {
	x := n
	for x.Parent != nil {
		x = x.Parent
	}
	return x
}

// Document returns the document owning n, or nil if n is not attached to
// one.
func (n *Node) Document() *Node {
	r := n.Root()
	if r.Type != DocumentType {
		return nil
	}
	return r
}

// DocumentElement returns the first element child of a document.
func (n *Node) DocumentElement() *Node {
	for _, c := range n.Children {
		if c.Type == ElementType {
			return c
		}
	}
	return nil
}

func (n *Node) AppendChild(c *Node) error {
	return n.insertAt(len(n.Children), c)
}

// InsertBefore links c as the sibling immediately preceding ref, which must
// be a child of n.
func (n *Node) InsertBefore(c, ref *Node) error {
	if ref.Parent != n || ref.Type == AttrType {
		return fmt.Errorf("%w: %s in %s", ErrNotChild, ref.Path(), n.Path())
	}
	return n.insertAt(ref.ParentIndex, c)
}

// InsertAfter links c as the sibling immediately following ref, which must
// be a child of n.
func (n *Node) InsertAfter(c, ref *Node) error {
	if ref.Parent != n || ref.Type == AttrType {
		return fmt.Errorf("%w: %s in %s", ErrNotChild, ref.Path(), n.Path())
	}
	return n.insertAt(ref.ParentIndex+1, c)
}

func (n *Node) insertAt(i int, c *Node) error {
	if !n.Type.IsContainer() {
		return fmt.Errorf("%w: %s at %s", ErrNotContainer, n.Type, n.Path())
	}
	if c.Type == AttrType || c.Type == DocumentType {
		return fmt.Errorf("cannot link %s node as a child of %s", c.Type, n.Path())
	}
	if n.Type == DocumentType && c.Type == ElementType {
		if root := n.DocumentElement(); root != nil && root != c {
			return fmt.Errorf("%w: cannot link %s", ErrSecondRoot, c.Name)
		}
	}
	if c.Parent != nil {
		if c.Parent == n && c.ParentIndex < i {
			i--
		}
		c.Remove()
	}
	n.Children = slices.Insert(n.Children, i, c)
	c.Parent = n
	reindex(n.Children, i)
	return nil
}

// Remove detaches n from its parent. Removing a detached node is a no-op.
func (n *Node) Remove() {
	p := n.Parent
	if p == nil {
		return
	}
	i := n.ParentIndex
	if n.Type == AttrType {
		if i < len(p.Attrs) && p.Attrs[i] == n {
			p.Attrs = slices.Delete(p.Attrs, i, i+1)
			reindex(p.Attrs, i)
		}
	} else if i < len(p.Children) && p.Children[i] == n {
		p.Children = slices.Delete(p.Children, i, i+1)
		reindex(p.Children, i)
	}
	n.Parent = nil
	n.ParentIndex = 0
}

func reindex(ns []*Node, from int) {
	for i := from; i < len(ns); i++ {
		ns[i].ParentIndex = i
	}
}

// Attr returns the attribute node named name, or nil.
func (n *Node) Attr(name string) *Node {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SetAttr sets the value of the attribute named name, creating it at the
// end of the attribute list if it is missing.
func (n *Node) SetAttr(name, value string) *Node {
	if a := n.Attr(name); a != nil {
		a.Text = value
		return a
	}
	a := NewAttr(name, value)
	a.Parent = n
	a.ParentIndex = len(n.Attrs)
	n.Attrs = append(n.Attrs, a)
	return a
}

// ChildNamed returns the first child whose NodeName is name, or nil.
func (n *Node) ChildNamed(name string) *Node {
	for _, c := range n.Children {
		if c.NodeName() == name {
			return c
		}
	}
	return nil
}

func (n *Node) HasTextChild() bool {
	return slices.ContainsFunc(n.Children, func(c *Node) bool { return c.Type == TextType })
}

// TextContent returns the concatenation of the direct text children of a
// container, or the value of a leaf node.
func (n *Node) TextContent() string {
	if n.Type.IsLeaf() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Type == TextType {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// SetTextContent replaces the direct text children of a container by a
// single text node holding v, placed where the last text child stood or at
// the end. Non-text children are untouched. On leaf nodes it sets the value.
func (n *Node) SetTextContent(v string) {
	if n.Type.IsLeaf() {
		n.Text = v
		return
	}
	at := -1
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Type == TextType {
			at = len(kept)
			c.Parent = nil
			continue
		}
		kept = append(kept, c)
	}
	clear(n.Children[len(kept):])
	n.Children = kept
	if at == -1 {
		at = len(n.Children)
	}
	if v != "" || n.Type == ElementType {
		t := NewText(v)
		n.Children = slices.Insert(n.Children, at, t)
		t.Parent = n
	}
	reindex(n.Children, 0)
}

// InnerText returns the string-value of n: all descendant text for
// containers, the value for leaves.
func (n *Node) InnerText() string {
	if n.Type.IsLeaf() {
		return n.Text
	}
	var sb strings.Builder
	n.innerText(&sb)
	return sb.String()
}

func (n *Node) innerText(sb *strings.Builder) {
	for _, c := range n.Children {
		switch c.Type {
		case TextType:
			sb.WriteString(c.Text)
		case ElementType:
			c.innerText(sb)
		}
	}
}

// IsBlank reports whether n is a comment or a text node holding only
// whitespace.
func (n *Node) IsBlank() bool {
	switch n.Type {
	case CommentType:
		return true
	case TextType:
		return strings.TrimSpace(n.Text) == ""
	default:
		return false
	}
}
