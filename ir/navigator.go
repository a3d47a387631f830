package ir

import "github.com/antchfx/xpath"

// Navigator walks a Node tree for XPath evaluation.
type Navigator struct {
	root, curr *Node
	attr       int
}

var _ xpath.NodeNavigator = (*Navigator)(nil)

// NewNavigator returns a navigator positioned at n. The navigator root is
// the top-most ancestor of n.
func NewNavigator(n *Node) *Navigator {
	nav := &Navigator{root: n.Root(), curr: n, attr: -1}
	if n.Type == AttrType && n.Parent != nil {
		nav.curr = n.Parent
		nav.attr = n.ParentIndex
	}
	return nav
}

// Current returns the node under the navigator, which is an attribute node
// when the navigator is positioned on one.
func (x *Navigator) Current() *Node {
	if x.attr != -1 {
		return x.curr.Attrs[x.attr]
	}
	return x.curr
}

func (x *Navigator) NodeType() xpath.NodeType {
	if x.attr != -1 {
		return xpath.AttributeNode
	}
	switch x.curr.Type {
	case DocumentType:
		return xpath.RootNode
	case TextType:
		return xpath.TextNode
	case CommentType:
		return xpath.CommentNode
	default:
		return xpath.ElementNode
	}
}

func (x *Navigator) LocalName() string {
	return x.Current().LocalName()
}

func (x *Navigator) Prefix() string {
	return x.Current().Prefix()
}

func (x *Navigator) Value() string {
	return x.Current().InnerText()
}

func (x *Navigator) Copy() xpath.NodeNavigator {
	n := *x
	return &n
}

func (x *Navigator) MoveToRoot() {
	x.curr = x.root
	x.attr = -1
}

func (x *Navigator) MoveToParent() bool {
	if x.attr != -1 {
		x.attr = -1
		return true
	}
	if x.curr.Parent == nil {
		return false
	}
	x.curr = x.curr.Parent
	return true
}

func (x *Navigator) MoveToNextAttribute() bool {
	if x.attr >= len(x.curr.Attrs)-1 {
		return false
	}
	x.attr++
	return true
}

func (x *Navigator) MoveToChild() bool {
	if x.attr != -1 || len(x.curr.Children) == 0 {
		return false
	}
	x.curr = x.curr.Children[0]
	return true
}

func (x *Navigator) MoveToFirst() bool {
	if x.attr != -1 || x.curr.Parent == nil {
		return false
	}
	first := x.curr.Parent.Children[0]
	if first == x.curr {
		return false
	}
	x.curr = first
	return true
}

func (x *Navigator) MoveToNext() bool {
	if x.attr != -1 || x.curr.Parent == nil {
		return false
	}
	sibs := x.curr.Parent.Children
	i := x.curr.ParentIndex + 1
	if i >= len(sibs) {
		return false
	}
	x.curr = sibs[i]
	return true
}

func (x *Navigator) MoveToPrevious() bool {
	if x.attr != -1 || x.curr.Parent == nil {
		return false
	}
	i := x.curr.ParentIndex - 1
	if i < 0 {
		return false
	}
	x.curr = x.curr.Parent.Children[i]
	return true
}

func (x *Navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*Navigator)
	if !ok || o.root != x.root {
		return false
	}
	x.curr = o.curr
	x.attr = o.attr
	return true
}

func (x *Navigator) String() string {
	return x.Current().Path()
}
