package xmlpatch

import (
	"fmt"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/mergeop"
	"github.com/signadot/xmlpatch/query"
)

// Descriptor is a declarative patch: for each node selected by XPath (or
// the document when XPath is empty) it resolves a value, locates or creates
// the Destination and merges the value into it with Strategy.
type Descriptor struct {
	// Class is the registry class the descriptor was decoded from.
	Class  string
	Source string

	XPath string
	// Value is a query evaluated against each context node. Empty means
	// the context node itself.
	Value string
	// Literal holds a literal value as its children. It takes precedence
	// over Value.
	Literal     *ir.Node
	Destination string
	Strategy    mergeop.Strategy
	// If is an expression guarding the whole descriptor.
	If    string
	Debug bool
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(xpath: '%s', destination: '%s', value: '%s')", d.class(), d.XPath, d.Destination, d.value())
}

func (d *Descriptor) class() string {
	if d.Class == "" {
		return d.Strategy.String()
	}
	return d.Class
}

func (d *Descriptor) value() string {
	if d.Literal == nil {
		return d.Value
	}
	s, err := encode.InnerXML(d.Literal)
	if err != nil {
		return "?"
	}
	return s
}

func (d *Descriptor) debugInfo() string {
	return fmt.Sprintf("DEBUG: Running '%s' from file '%s' with xpath '%s', destination '%s' and value '%s'.",
		d.class(), d.Source, d.XPath, d.Destination, d.value())
}

func (d *Descriptor) errorf(q string, err error) error {
	return &Error{Op: d.String(), Source: d.Source, Query: q, Err: err}
}

func (d *Descriptor) Apply(ctx *Context, doc *ir.Node) (bool, error) {
	log := ctx.logger()
	if d.Debug {
		log.Info(d.debugInfo())
	}
	if d.Destination == "" {
		return false, d.errorf("", fmt.Errorf("%w: destination", ErrMissingField))
	}
	if d.If != "" {
		ok, err := eval.Cond(d.If, ctx.env(), doc)
		if err != nil {
			return false, d.errorf(d.If, err)
		}
		if !ok {
			if d.Debug {
				log.Info("skipping: condition is false", "op", d.String(), "if", d.If)
			}
			return true, nil
		}
	}
	contexts := []*ir.Node{doc}
	if d.XPath != "" {
		var err error
		contexts, err = query.Select(doc, d.XPath)
		if err != nil {
			return false, d.errorf(d.XPath, err)
		}
	}
	oc := &mergeop.OpContext{Debug: d.Debug, Log: log, Op: d.String()}
	res := false
	for _, c := range contexts {
		ok, err := d.applyTo(ctx, oc, c)
		if err != nil {
			return false, err
		}
		if ok {
			res = true
		}
	}
	if debug.Apply() {
		debug.Logf("%s on %d contexts gave %t\n", d, len(contexts), res)
	}
	if !res && d.Debug {
		log.Info("no successful merge", "op", d.String(), "contexts", len(contexts))
	}
	return res, nil
}

func (d *Descriptor) applyTo(ctx *Context, oc *mergeop.OpContext, c *ir.Node) (bool, error) {
	log := ctx.logger()
	var (
		v   query.Value
		ok  bool
		err error
	)
	if d.Literal != nil {
		v, ok = query.LiteralValue(d.Literal)
	} else {
		v, ok, err = query.ResolveValue(c, d.Value)
		if err != nil {
			return false, d.errorf(d.Value, err)
		}
	}
	if !ok {
		if d.Debug {
			log.Info("returning false due to no matching values", "op", d.String(), "value", d.Value, "context", c.Path())
		}
		return false, nil
	}
	if d.Strategy.Kind == mergeop.Replace {
		return d.replace(ctx, oc, c, v)
	}
	r := query.NewResolver(query.ResolveDebug(d.Debug), query.ResolveLogger(log))
	targets, err := r.Resolve(c, d.Destination)
	if err != nil {
		return false, d.errorf(d.Destination, err)
	}
	res := false
	for _, t := range targets {
		if d.Strategy.Apply(oc, v, t) {
			res = true
		}
	}
	return res, nil
}

// replace merges into the existing matches of the destination only and
// stops at the first node merge that fails.
func (d *Descriptor) replace(ctx *Context, oc *mergeop.OpContext, c *ir.Node, v query.Value) (bool, error) {
	targets, err := query.Select(c, d.Destination)
	if err != nil {
		return false, d.errorf(d.Destination, err)
	}
	for _, t := range targets {
		tv := v.For(t)
		if tv.IsText {
			d.Strategy.ApplyText(oc, tv.Text, t)
			continue
		}
		if !d.Strategy.ApplyNodes(oc, tv.Nodes, t) {
			return false, nil
		}
	}
	if len(targets) == 0 {
		if d.Debug {
			ctx.logger().Info("returning false due to no matching targets", "op", d.String(), "destination", d.Destination)
		}
		return false, nil
	}
	return true, nil
}
