package eval

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"
	"github.com/signadot/xmlpatch/query"
)

type substOpts struct {
	log *slog.Logger
}

type SubstOption func(*substOpts)

// SubstLogger sets the logger receiving diagnostics for placeholders that
// select nothing.
func SubstLogger(l *slog.Logger) SubstOption {
	return func(o *substOpts) { o.log = l }
}

type span struct {
	start, end int // positions of '{' and '}'
}

// Substitute replaces each {query} placeholder of template by the result
// of evaluating query against node.
//
// A node result whose placeholder is the sole content of an element, as in
// <Name>{Label}</Name>, contributes its inner text; elsewhere it contributes
// its markup. Scalars contribute their text form. A placeholder selecting
// nothing is removed and a warning logged.
//
// Placeholders do not nest. \{ and \} outside placeholders stand for literal
// braces. Unbalanced braces yield ErrBraceMismatch before anything is
// substituted.
func Substitute(template string, node *ir.Node, opts ...SubstOption) (string, error) {
	o := &substOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	spans, err := scanSpans(template)
	if err != nil {
		return "", err
	}
	buf := []byte(template)
	// right to left, so the offsets of spans not yet handled stay valid.
	litEnd := len(buf)
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		buf = unescapeRange(buf, sp.end+1, litEnd)
		q := strings.TrimSpace(template[sp.start+1 : sp.end])
		sole := sp.start > 0 && template[sp.start-1] == '>' &&
			sp.end+1 < len(template) && template[sp.end+1] == '<'
		repl := substitution(o, q, node, sole)
		if debug.Subst() {
			debug.Logf("subst {%s} at %d gave %q\n", q, sp.start, repl)
		}
		buf = slices.Replace(buf, sp.start, sp.end+1, []byte(repl)...)
		litEnd = sp.start
	}
	buf = unescapeRange(buf, 0, litEnd)
	return string(buf), nil
}

// SubstituteFragment substitutes template and parses the result as a
// single element.
func SubstituteFragment(template string, node *ir.Node, opts ...SubstOption) (*ir.Node, error) {
	s, err := Substitute(template, node, opts...)
	if err != nil {
		return nil, err
	}
	return parse.ParseFragment(s)
}

func scanSpans(t string) ([]span, error) {
	var res []span
	open := -1
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '\\':
			if open == -1 && i+1 < len(t) && (t[i+1] == '{' || t[i+1] == '}') {
				i++
			}
		case '{':
			if open != -1 {
				return nil, fmt.Errorf("%w: nested '{' at %d", ErrBraceMismatch, i)
			}
			open = i
		case '}':
			if open == -1 {
				return nil, fmt.Errorf("%w: '}' at %d without '{'", ErrBraceMismatch, i)
			}
			res = append(res, span{start: open, end: i})
			open = -1
		}
	}
	if open != -1 {
		return nil, fmt.Errorf("%w: '{' at %d is not closed", ErrBraceMismatch, open)
	}
	return res, nil
}

func unescapeRange(buf []byte, from, to int) []byte {
	if from >= to {
		return buf
	}
	seg := buf[from:to]
	if !bytes.Contains(seg, []byte(`\{`)) && !bytes.Contains(seg, []byte(`\}`)) {
		return buf
	}
	out := make([]byte, 0, len(seg))
	for i := 0; i < len(seg); i++ {
		if seg[i] == '\\' && i+1 < len(seg) && (seg[i+1] == '{' || seg[i+1] == '}') {
			i++
		}
		out = append(out, seg[i])
	}
	return slices.Replace(buf, from, to, out...)
}

func substitution(o *substOpts, q string, node *ir.Node, sole bool) string {
	res, err := query.Eval(node, q)
	if err != nil {
		o.log.Warn("invalid placeholder query", "query", q, "context", node.Path(), "error", err)
		return ""
	}
	if res.Kind != query.NodeSetKind {
		return res.Text()
	}
	if len(res.Nodes) == 0 {
		o.log.Warn("placeholder query selected nothing", "query", q, "context", node.Path())
		return ""
	}
	n := res.Nodes[0]
	if sole {
		return n.InnerText()
	}
	var sb strings.Builder
	if err := encode.Encode(n, &sb); err != nil {
		o.log.Warn("could not encode placeholder result", "query", q, "error", err)
		return ""
	}
	return sb.String()
}
