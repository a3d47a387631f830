package xmlpatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/mergeop"
)

// Decode builds the operation described by el. The element's Class
// attribute selects the registered decoder; its child elements hold the
// fields:
//
//	<Operation Class="Add">
//	  <xpath>/Defs/ThingDef</xpath>
//	  <value>statBases/MaxHitPoints</value>
//	  <destination>comps/li/hp</destination>
//	</Operation>
func Decode(el *ir.Node, source string) (Operation, error) {
	if el == nil || el.Type != ir.ElementType {
		return nil, fmt.Errorf("%w: operation must be an element", ErrDecode)
	}
	class := className(el)
	if class == "" {
		return nil, fmt.Errorf("%w: <%s> at %s has no Class", ErrDecode, el.Name, el.Path())
	}
	f := Lookup(class)
	if f == nil {
		return nil, fmt.Errorf("%w: %q at %s", ErrUnknownClass, class, el.Path())
	}
	return f(el, source)
}

// DecodeAll decodes the <Operation> children of a <Patch> document. It
// returns the operations it could decode together with the joined errors of
// those it could not.
func DecodeAll(doc *ir.Node, source string) ([]Operation, error) {
	root := doc
	if doc.Type == ir.DocumentType {
		root = doc.DocumentElement()
	}
	if root == nil || root.Name != "Patch" {
		return nil, fmt.Errorf("%w: %s: root element must be <Patch>", ErrDecode, source)
	}
	var (
		ops  []Operation
		errs []error
	)
	for _, c := range root.Children {
		if c.Type != ir.ElementType {
			continue
		}
		if c.Name != "Operation" {
			errs = append(errs, fmt.Errorf("%w: %s: unexpected <%s> at %s", ErrDecode, source, c.Name, c.Path()))
			continue
		}
		op, err := Decode(c, source)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
			continue
		}
		ops = append(ops, op)
	}
	return ops, errors.Join(errs...)
}

func className(el *ir.Node) string {
	a := el.Attr("Class")
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.Text)
}

// fields reads the child element fields of an operation, keeping the first
// error.
type fields struct {
	el  *ir.Node
	err error
}

func (f *fields) text(name string) string {
	c := f.el.ChildNamed(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

func (f *fields) flag(name string) bool {
	s := f.text(name)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		f.fail(fmt.Errorf("%w: <%s> at %s: %w", ErrDecode, name, f.el.Path(), err))
	}
	return b
}

func (f *fields) order() mergeop.Order {
	var o mergeop.Order
	if err := o.UnmarshalText([]byte(f.text("order"))); err != nil {
		f.fail(fmt.Errorf("%w: <order> at %s: %w", ErrDecode, f.el.Path(), err))
	}
	return o
}

func (f *fields) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func decodeDescriptor(k mergeop.Kind) DecodeFunc {
	return func(el *ir.Node, source string) (Operation, error) {
		f := &fields{el: el}
		d := &Descriptor{
			Class:       className(el),
			Source:      source,
			XPath:       f.text("xpath"),
			Value:       f.text("value"),
			Destination: f.text("destination"),
			Strategy:    mergeop.Strategy{Kind: k, Order: f.order()},
			If:          f.text("if"),
			Debug:       f.flag("debug"),
		}
		if f.err != nil {
			return nil, f.err
		}
		return d, nil
	}
}

// decodeLiteral decodes operations whose xpath is the destination and
// whose value element holds the literal value.
func decodeLiteral(k mergeop.Kind) DecodeFunc {
	return func(el *ir.Node, source string) (Operation, error) {
		f := &fields{el: el}
		lit := el.ChildNamed("value")
		if lit == nil {
			return nil, fmt.Errorf("%w: %s at %s is missing a value", ErrMissingField, className(el), el.Path())
		}
		d := &Descriptor{
			Class:       className(el),
			Source:      source,
			Destination: f.text("xpath"),
			Literal:     lit.Clone(),
			Strategy:    mergeop.Strategy{Kind: k},
			If:          f.text("if"),
			Debug:       f.flag("debug"),
		}
		if f.err != nil {
			return nil, f.err
		}
		return d, nil
	}
}

func decodeGenerator(mode GenMode) DecodeFunc {
	return func(el *ir.Node, source string) (Operation, error) {
		f := &fields{el: el}
		g := &Generator{
			Class:   className(el),
			Source:  source,
			XPath:   f.text("xpath"),
			Mode:    mode,
			Wrapper: f.text("wrapper"),
			Debug:   f.flag("debug"),
		}
		if v := el.ChildNamed("value"); v != nil {
			t, err := encode.InnerXML(v)
			if err != nil {
				return nil, fmt.Errorf("%w: value at %s: %w", ErrDecode, v.Path(), err)
			}
			g.Template = strings.TrimSpace(t)
		}
		if f.err != nil {
			return nil, f.err
		}
		return g, nil
	}
}

func decodeDeferred(el *ir.Node, source string) (Operation, error) {
	f := &fields{el: el}
	d := &Deferred{
		Class:  className(el),
		Source: source,
		Debug:  f.flag("debug"),
	}
	if c := el.ChildNamed("operation"); c != nil {
		op, err := Decode(c, source)
		if err != nil {
			return nil, err
		}
		d.Op = op
	}
	if f.err != nil {
		return nil, f.err
	}
	return d, nil
}

func decodeSequence(el *ir.Node, source string) (Operation, error) {
	s := &Sequence{Class: className(el), Source: source}
	list := el.ChildNamed("operations")
	if list == nil {
		return nil, fmt.Errorf("%w: %s at %s is missing operations", ErrMissingField, s.Class, el.Path())
	}
	for _, c := range list.Children {
		if c.Type != ir.ElementType {
			continue
		}
		op, err := Decode(c, source)
		if err != nil {
			return nil, err
		}
		s.Ops = append(s.Ops, op)
	}
	return s, nil
}
