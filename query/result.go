package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/xpath"
	"github.com/signadot/xmlpatch/ir"
)

type Kind int

const (
	NodeSetKind Kind = iota
	StringKind
	NumberKind
	BoolKind
)

func (k Kind) String() string {
	switch k {
	case NodeSetKind:
		return "node-set"
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is the outcome of evaluating a query. Nodes is a snapshot taken
// before the caller gets control, so mutating the tree never disturbs it.
type Result struct {
	Kind   Kind
	Nodes  []*ir.Node
	String string
	Number float64
	Bool   bool
}

// Text returns the XPath string form of the result. Numbers are written
// without a trailing fraction when integral and booleans are lowercase.
func (r *Result) Text() string {
	switch r.Kind {
	case StringKind:
		return r.String
	case NumberKind:
		return FormatNumber(r.Number)
	case BoolKind:
		return strconv.FormatBool(r.Bool)
	default:
		if len(r.Nodes) == 0 {
			return ""
		}
		return r.Nodes[0].InnerText()
	}
}

func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var scratch = sync.Pool{
	New: func() any {
		s := make([]*ir.Node, 0, 16)
		return &s
	},
}

// Compile checks the syntax of q.
func Compile(q string) (*xpath.Expr, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrSyntax)
	}
	e, err := xpath.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, q, err)
	}
	return e, nil
}

// Eval evaluates q against node.
func Eval(node *ir.Node, q string) (*Result, error) {
	e, err := Compile(q)
	if err != nil {
		return nil, err
	}
	return EvalExpr(node, e)
}

func EvalExpr(node *ir.Node, e *xpath.Expr) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: evaluating %q: %v", ErrSyntax, e.String(), r)
		}
	}()
	switch v := e.Evaluate(ir.NewNavigator(node)).(type) {
	case *xpath.NodeIterator:
		return &Result{Kind: NodeSetKind, Nodes: drain(v)}, nil
	case string:
		return &Result{Kind: StringKind, String: v}, nil
	case float64:
		return &Result{Kind: NumberKind, Number: v}, nil
	case bool:
		return &Result{Kind: BoolKind, Bool: v}, nil
	default:
		return nil, fmt.Errorf("%w: %q yields unsupported %T", ErrSyntax, e.String(), v)
	}
}

// drain copies the matches of it into a fresh slice, using a pooled
// scratch slice while iterating.
func drain(it *xpath.NodeIterator) []*ir.Node {
	sp := scratch.Get().(*[]*ir.Node)
	buf := (*sp)[:0]
	defer func() {
		clear(buf)
		*sp = buf[:0]
		scratch.Put(sp)
	}()
	for it.MoveNext() {
		nav, ok := it.Current().(*ir.Navigator)
		if !ok {
			continue
		}
		buf = append(buf, nav.Current())
	}
	if len(buf) == 0 {
		return nil
	}
	res := make([]*ir.Node, len(buf))
	copy(res, buf)
	return res
}

// Select evaluates q against node and returns the matched nodes. Scalar
// results yield no nodes.
func Select(node *ir.Node, q string) ([]*ir.Node, error) {
	res, err := Eval(node, q)
	if err != nil {
		return nil, err
	}
	if res.Kind != NodeSetKind {
		return nil, nil
	}
	return res.Nodes, nil
}
