package ir

import "strings"

// Truth reports whether a node counts as true in a condition: elements and
// documents with any child, and leaves whose trimmed value is neither empty
// nor "false".
func Truth(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Type {
	case DocumentType, ElementType:
		return len(node.Children) != 0 || len(node.Attrs) != 0
	case CommentType:
		return false
	default:
		v := strings.TrimSpace(node.Text)
		return v != "" && !strings.EqualFold(v, "false")
	}
}
