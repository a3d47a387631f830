package query

import (
	"strings"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/ir"
)

// Value is a resolved patch value: either an ordered list of nodes or a
// text scalar.
type Value struct {
	Nodes  []*ir.Node
	Text   string
	IsText bool
}

func TextValue(s string) Value {
	return Value{Text: s, IsText: true}
}

// ResolveValue evaluates q against node. An empty q yields node itself. ok
// is false when q selects no nodes, or only comments and whitespace text.
func ResolveValue(node *ir.Node, q string) (v Value, ok bool, err error) {
	if q == "" {
		return Value{Nodes: []*ir.Node{node}}, true, nil
	}
	res, err := Eval(node, q)
	if err != nil {
		return Value{}, false, err
	}
	if res.Kind != NodeSetKind {
		v = TextValue(res.Text())
		ok = true
	} else {
		v, ok = NodesValue(res.Nodes)
	}
	if debug.Value() {
		debug.Logf("value %q from %s: ok=%t nodes=%v text=%q\n", q, node.Path(), ok, v.Nodes, v.Text)
	}
	return v, ok, nil
}

// NodesValue wraps nodes, reporting false when they are all blank.
func NodesValue(nodes []*ir.Node) (Value, bool) {
	for _, n := range nodes {
		if !n.IsBlank() {
			return Value{Nodes: nodes}, true
		}
	}
	return Value{}, false
}

// LiteralValue takes the children of a literal value container such as
// <value>...</value>.
func LiteralValue(container *ir.Node) (Value, bool) {
	if container == nil {
		return Value{}, false
	}
	return NodesValue(container.Children)
}

// OnlyText reports whether v is a non-empty list of text nodes.
func (v Value) OnlyText() bool {
	if v.IsText || len(v.Nodes) == 0 {
		return false
	}
	for _, n := range v.Nodes {
		if n.Type != ir.TextType {
			return false
		}
	}
	return true
}

// InnerText concatenates the string-values of the nodes of v.
func (v Value) InnerText() string {
	if v.IsText {
		return v.Text
	}
	var sb strings.Builder
	for _, n := range v.Nodes {
		sb.WriteString(n.InnerText())
	}
	return sb.String()
}

// For adapts v to target: attributes cannot hold nodes, so a text-only node
// list becomes its text.
func (v Value) For(target *ir.Node) Value {
	if target.Type == ir.AttrType && v.OnlyText() {
		return TextValue(v.InnerText())
	}
	return v
}
