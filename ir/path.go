package ir

import (
	"strconv"
	"strings"
)

// Path returns an absolute location path identifying n, such as
// "/Defs/ThingDef[2]/@Name". Positions are given only when a sibling shares
// the node's name.
func (y *Node) Path() string {
	if y.Parent == nil {
		if y.Type == DocumentType {
			return "/"
		}
		return step(y)
	}
	prefix := y.Parent.Path()
	if prefix == "/" {
		prefix = ""
	}
	return prefix + "/" + step(y)
}

func step(y *Node) string {
	switch y.Type {
	case AttrType:
		return "@" + y.Name
	case TextType:
		return "text()" + position(y)
	case CommentType:
		return "comment()" + position(y)
	case DocumentType:
		return ""
	default:
		return y.Name + position(y)
	}
}

func position(y *Node) string {
	if y.Parent == nil {
		return ""
	}
	pos, n := 0, 0
	for i, sib := range y.Parent.Children {
		if sib.Type != y.Type || sib.Name != y.Name {
			continue
		}
		n++
		if i == y.ParentIndex {
			pos = n
		}
	}
	if n < 2 {
		return ""
	}
	return "[" + strconv.Itoa(pos) + "]"
}

// Visit walks the tree rooted at y in document order. f is called before
// (isPost false) and after (isPost true) the children; attributes are
// visited only when f asks to dive.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, a := range y.Attrs {
			if err := a.Visit(f); err != nil {
				return err
			}
		}
		for _, c := range y.Children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// IsName reports whether s is usable as an XML element or attribute name.
func IsName(s string) bool {
	if s == "" || strings.Count(s, ":") > 1 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= 0xC0 && r != 0xD7 && r != 0xF7:
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9' || r == 0xB7):
		default:
			return false
		}
	}
	return s[0] != ':' && s[len(s)-1] != ':'
}
