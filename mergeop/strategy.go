package mergeop

import (
	"fmt"

	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/query"
)

type Kind int

const (
	Add Kind = iota
	Insert
	Set
	Replace
	TryAdd
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		Add:     "Add",
		Insert:  "Insert",
		Set:     "Set",
		Replace: "Replace",
		TryAdd:  "TryAdd",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Add":     Add,
		"Insert":  Insert,
		"Set":     Set,
		"Replace": Replace,
		"TryAdd":  TryAdd,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized strategy %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{Add, Insert, Set, Replace, TryAdd}
}

// Order selects the side of the target Insert places values on.
type Order int

const (
	Prepend Order = iota
	Append
)

func (o Order) String() string {
	if o == Append {
		return "Append"
	}
	return "Prepend"
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(d []byte) error {
	switch string(d) {
	case "Prepend", "":
		*o = Prepend
	case "Append":
		*o = Append
	default:
		return fmt.Errorf("unrecognized order %q", d)
	}
	return nil
}

// Strategy is a merge strategy. Order only affects Insert.
type Strategy struct {
	Kind  Kind
	Order Order
}

func (s Strategy) String() string {
	if s.Kind == Insert {
		return s.Kind.String() + "(" + s.Order.String() + ")"
	}
	return s.Kind.String()
}

type nodesFunc func(oc *OpContext, s Strategy, values []*ir.Node, target *ir.Node) bool
type textFunc func(oc *OpContext, s Strategy, text string, target *ir.Node) bool

type entry struct {
	nodes nodesFunc
	text  textFunc
}

var table = [...]entry{
	Add:     {nodes: addNodes, text: addText},
	Insert:  {nodes: insertNodes, text: insertText},
	Set:     {nodes: setNodes, text: setText},
	Replace: {nodes: setNodes, text: setText},
	TryAdd:  {nodes: tryAddNodes, text: tryAddText},
}

func (s Strategy) entry() entry {
	if s.Kind < 0 || int(s.Kind) >= len(table) {
		panic(fmt.Sprintf("unknown merge strategy %d", s.Kind))
	}
	return table[s.Kind]
}

// ApplyNodes merges clones of values into target and reports whether
// target was modified. TryAdd instead reports whether values is non-empty.
func (s Strategy) ApplyNodes(oc *OpContext, values []*ir.Node, target *ir.Node) bool {
	if len(values) == 0 {
		oc.tracef("no values", target)
		return false
	}
	return s.entry().nodes(oc, s, values, target)
}

// ApplyText merges text into target and reports whether target was
// modified. Empty text never modifies anything.
func (s Strategy) ApplyText(oc *OpContext, text string, target *ir.Node) bool {
	if text == "" {
		oc.tracef("empty text", target)
		return false
	}
	return s.entry().text(oc, s, text, target)
}

// Apply merges v into target, after adapting v to the kind of target.
func (s Strategy) Apply(oc *OpContext, v query.Value, target *ir.Node) bool {
	v = v.For(target)
	if v.IsText {
		return s.ApplyText(oc, v.Text, target)
	}
	return s.ApplyNodes(oc, v.Nodes, target)
}

// textOf and setTextOf read and write the text content of any node kind.
func textOf(n *ir.Node) string {
	return n.TextContent()
}

func setTextOf(n *ir.Node, v string) bool {
	if n.Type == ir.DocumentType {
		return false
	}
	n.SetTextContent(v)
	return true
}
