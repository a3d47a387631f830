package query

import (
	"log/slog"
	"strings"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/ir"
)

// Resolver locates destination nodes, creating a missing trailing step
// along the way.
type Resolver struct {
	// Debug enables the diagnostic logged when nothing matches.
	Debug bool
	Log   *slog.Logger
}

type ResolveOption func(*Resolver)

func ResolveDebug(v bool) ResolveOption {
	return func(r *Resolver) { r.Debug = v }
}

func ResolveLogger(l *slog.Logger) ResolveOption {
	return func(r *Resolver) { r.Log = l }
}

func NewResolver(opts ...ResolveOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Log == nil {
		r.Log = slog.Default()
	}
	return r
}

// Resolve evaluates path against node after materializing its structural
// ancestors: for a path "P/s", P is resolved first and a missing step s is
// created under each node P matches. A single bare step is created directly
// under node. Only bare names, @name and text() are ever created.
//
// The returned nodes are a snapshot; an empty result is not an error.
func (r *Resolver) Resolve(node *ir.Node, path string) ([]*ir.Node, error) {
	return r.resolve(node, path, nil)
}

func (r *Resolver) resolve(node *ir.Node, path string, action func(*ir.Node)) ([]*ir.Node, error) {
	e, err := Compile(path)
	if err != nil {
		return nil, err
	}
	structural := StripFunctionCall(e.String())
	if parent, step, ok := ParentPath(structural); ok {
		if _, err := r.resolve(node, parent, func(p *ir.Node) { r.ensureChild(p, step) }); err != nil {
			return nil, err
		}
	} else if IsBareStep(structural) {
		r.ensureChild(node, structural)
	}

	res, err := EvalExpr(node, e)
	if err != nil {
		return nil, err
	}
	matches := res.Nodes
	if debug.Resolve() {
		debug.Logf("resolve %q from %s: %d matches\n", path, node.Path(), len(matches))
	}
	if action != nil {
		for _, m := range matches {
			action(m)
		}
	}
	if len(matches) == 0 && r.Debug {
		r.log().Info("no matching nodes", "path", path, "context", node.Path())
	}
	return matches, nil
}

// ensureChild creates step under p unless it is already present.
func (r *Resolver) ensureChild(p *ir.Node, step string) {
	if !p.Type.IsContainer() {
		return
	}
	switch {
	case step == textStep:
		if p.HasTextChild() {
			return
		}
		t := ir.NewText("")
		_ = p.AppendChild(t)
		r.created(p, t)
	case strings.HasPrefix(step, "@"):
		name := step[1:]
		if p.Type != ir.ElementType || !ir.IsName(name) || p.Attr(name) != nil {
			return
		}
		r.created(p, p.SetAttr(name, ""))
	default:
		if !ir.IsName(step) || p.ChildNamed(step) != nil {
			return
		}
		if p.Type == ir.DocumentType && p.DocumentElement() != nil {
			return
		}
		el := ir.NewElement(step)
		_ = p.AppendChild(el)
		r.created(p, el)
	}
}

func (r *Resolver) created(p, n *ir.Node) {
	if debug.Resolve() {
		debug.Logf("created %s under %s\n", n.Path(), p.Path())
	}
	if r.Debug {
		r.log().Info("created node", "node", n.Path(), "parent", p.Path())
	}
}

func (r *Resolver) log() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}
