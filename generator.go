package xmlpatch

import (
	"fmt"
	"slices"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/query"
)

// GenMode selects what a Generator does with the nodes it generates.
type GenMode int

const (
	// Splice inserts the generated elements after the matched node.
	Splice GenMode = iota
	// Defs appends the generated elements to the document element.
	Defs
	// Patch decodes each generated element as an operation and applies it.
	Patch
)

func (m GenMode) String() string {
	switch m {
	case Splice:
		return "Splice"
	case Defs:
		return "Defs"
	case Patch:
		return "Patch"
	default:
		return fmt.Sprintf("GenMode(%d)", int(m))
	}
}

// Wrapper returns the conventional wrapper element name of m.
func (m GenMode) Wrapper() string {
	if m == Patch {
		return "Patch"
	}
	return "Defs"
}

// Generator substitutes Template for each node selected by XPath and
// applies the resulting fragment according to Mode. A fragment whose root
// is named Wrapper contributes its element children instead of itself.
type Generator struct {
	Class    string
	Source   string
	XPath    string
	Template string
	Mode     GenMode
	// Wrapper defaults to Mode.Wrapper().
	Wrapper string
	Debug   bool
}

func (g *Generator) String() string {
	class := g.Class
	if class == "" {
		class = g.Mode.String() + "Generator"
	}
	return fmt.Sprintf("%s(%s)", class, g.XPath)
}

func (g *Generator) wrapper() string {
	if g.Wrapper == "" {
		return g.Mode.Wrapper()
	}
	return g.Wrapper
}

func (g *Generator) errorf(q string, err error) error {
	return &Error{Op: g.String(), Source: g.Source, Query: q, Err: err}
}

// Apply reports false when XPath matches nothing and otherwise whether every
// match produced at least one node that was applied successfully.
func (g *Generator) Apply(ctx *Context, doc *ir.Node) (bool, error) {
	log := ctx.logger()
	if g.Debug {
		log.Info(fmt.Sprintf("DEBUG: Running '%s' from file '%s' with xpath '%s'.", g, g.Source, g.XPath))
	}
	if g.Template == "" {
		return false, g.errorf("", fmt.Errorf("%w: value", ErrMissingField))
	}
	if g.XPath == "" {
		return false, g.errorf("", fmt.Errorf("%w: xpath", ErrMissingField))
	}
	matches, err := query.Select(doc, g.XPath)
	if err != nil {
		return false, g.errorf(g.XPath, err)
	}
	if len(matches) == 0 {
		if g.Debug {
			log.Info("found no matches", "op", g.String(), "xpath", g.XPath)
		}
		return false, nil
	}
	res := true
	for _, m := range matches {
		frag, err := eval.SubstituteFragment(g.Template, m, eval.SubstLogger(log))
		if err != nil {
			return false, g.errorf(g.XPath, err)
		}
		if debug.Apply() {
			debug.Logf("%s generated %v at %s\n", g, frag, m.Path())
		}
		if !g.applyFragment(ctx, doc, m, frag) {
			res = false
		}
	}
	return res, nil
}

func (g *Generator) applyFragment(ctx *Context, doc, m, frag *ir.Node) bool {
	log := ctx.logger()
	if m.Parent == nil {
		log.Error("matched node lacks a parent", "op", g.String(), "source", g.Source, "node", m.Path())
		return false
	}
	nodes := []*ir.Node{frag}
	if frag.Name == g.wrapper() {
		nodes = slices.DeleteFunc(slices.Clone(frag.Children), func(c *ir.Node) bool {
			return c.Type != ir.ElementType
		})
		if len(nodes) == 0 {
			log.Error("generated wrapper is empty", "op", g.String(), "source", g.Source, "wrapper", g.wrapper())
			return false
		}
	}
	res := true
	at := m
	for _, n := range nodes {
		var ok bool
		switch g.Mode {
		case Splice:
			ok = g.splice(ctx, n, at)
			if ok {
				at = n
			}
		case Defs:
			ok = g.appendDef(ctx, doc, n)
		case Patch:
			ok = g.applyNested(ctx, doc, n)
		}
		if !ok {
			res = false
		}
	}
	return res
}

func (g *Generator) splice(ctx *Context, n, at *ir.Node) bool {
	if err := at.Parent.InsertAfter(n, at); err != nil {
		ctx.logger().Error("cannot splice generated node", "op", g.String(), "source", g.Source, "error", err)
		return false
	}
	return true
}

func (g *Generator) appendDef(ctx *Context, doc, n *ir.Node) bool {
	var root *ir.Node
	if d := doc.Document(); d != nil {
		root = d.DocumentElement()
	}
	if root == nil {
		ctx.logger().Error("document lacks a root element", "op", g.String(), "source", g.Source)
		return false
	}
	if err := root.AppendChild(n); err != nil {
		ctx.logger().Error("cannot append generated node", "op", g.String(), "source", g.Source, "error", err)
		return false
	}
	return true
}

func (g *Generator) applyNested(ctx *Context, doc, n *ir.Node) bool {
	log := ctx.logger()
	op, err := Decode(n, g.Source)
	if err != nil {
		log.Error("cannot decode generated operation", "op", g.String(), "source", g.Source, "xpath", g.XPath, "error", err)
		return false
	}
	ok, err := op.Apply(ctx, doc)
	if err != nil {
		log.Error("generated operation failed", "op", op.String(), "source", g.Source, "error", err)
		return false
	}
	if !ok {
		log.Error("generated operation failed", "op", op.String(), "source", g.Source)
	}
	return ok
}
