package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/xmlpatch/ir"
)

// Parse parses a complete XML document. The result is a DocumentType node
// owning exactly one element, possibly surrounded by comments.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newOpts(opts)
	doc := ir.NewDocument()
	if err := build(d, doc, pOpts); err != nil {
		return nil, err
	}
	n := 0
	for _, c := range doc.Children {
		switch c.Type {
		case ir.ElementType:
			n++
		case ir.TextType:
			if strings.TrimSpace(c.Text) != "" {
				return nil, fmt.Errorf("%w: text %q outside of root element", ErrParse, c.Text)
			}
		}
	}
	switch n {
	case 0:
		return nil, ErrNoRoot
	case 1:
	default:
		return nil, fmt.Errorf("%w: found %d", ErrMultipleRoots, n)
	}
	// whitespace between prolog items is never content
	for i := len(doc.Children) - 1; i >= 0; i-- {
		if doc.Children[i].Type == ir.TextType {
			doc.Children[i].Remove()
		}
	}
	return doc, nil
}

func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}

// ParseFragment parses markup holding a single root element, optionally
// surrounded by whitespace and comments, and returns that element detached.
func ParseFragment(s string, opts ...ParseOption) (*ir.Node, error) {
	nodes, err := ParseNodes(s, opts...)
	if err != nil {
		return nil, err
	}
	var res *ir.Node
	for _, n := range nodes {
		switch n.Type {
		case ir.ElementType:
			if res != nil {
				return nil, fmt.Errorf("%w: fragment has more than one root element", ErrMultipleRoots)
			}
			res = n
		case ir.TextType:
			if strings.TrimSpace(n.Text) != "" {
				return nil, fmt.Errorf("%w: text %q outside of fragment root", ErrParse, n.Text)
			}
		}
	}
	if res == nil {
		return nil, ErrNoRoot
	}
	return res, nil
}

// ParseNodes parses mixed content: any sequence of elements, text and
// comments. The returned nodes are detached.
func ParseNodes(s string, opts ...ParseOption) ([]*ir.Node, error) {
	pOpts := newOpts(opts)
	holder := ir.NewElement("fragment")
	if err := build([]byte(s), holder, pOpts); err != nil {
		return nil, err
	}
	res := make([]*ir.Node, len(holder.Children))
	copy(res, holder.Children)
	for _, n := range res {
		n.Remove()
	}
	return res, nil
}

type builder struct {
	dec   *xml.Decoder
	opts  *parseOpts
	stack []*ir.Node
	text  *ir.Node
}

func build(d []byte, root *ir.Node, opts *parseOpts) error {
	b := &builder{
		dec:   xml.NewDecoder(bytes.NewReader(d)),
		opts:  opts,
		stack: []*ir.Node{root},
	}
	b.dec.Strict = true
	for {
		tok, err := b.dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		if err := b.token(tok); err != nil {
			return err
		}
	}
	b.flushText()
	if len(b.stack) != 1 {
		top := b.stack[len(b.stack)-1]
		return fmt.Errorf("%w: unclosed element <%s>", ErrParse, top.Name)
	}
	return nil
}

func (b *builder) top() *ir.Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.CharData:
		if b.text != nil {
			b.text.Text += string(t)
			return nil
		}
		b.text = ir.NewText(string(t))
		return b.top().AppendChild(b.text)
	case xml.StartElement:
		b.flushText()
		el := ir.NewElement(qname(t.Name))
		for _, a := range t.Attr {
			el.SetAttr(qname(a.Name), a.Value)
		}
		if err := b.top().AppendChild(el); err != nil {
			return err
		}
		b.stack = append(b.stack, el)
	case xml.EndElement:
		b.flushText()
		name := qname(t.Name)
		if len(b.stack) == 1 {
			return fmt.Errorf("%w: unexpected </%s> at %s", ErrParse, name, b.pos())
		}
		if top := b.top(); top.Name != name {
			return fmt.Errorf("%w: element <%s> closed by </%s> at %s", ErrParse, top.Name, name, b.pos())
		}
		b.stack = b.stack[:len(b.stack)-1]
	case xml.Comment:
		b.flushText()
		if !b.opts.comments {
			return nil
		}
		return b.top().AppendChild(ir.NewComment(string(t)))
	default:
		// processing instructions and directives carry no patchable data
		b.flushText()
	}
	return nil
}

// flushText ends the current run of character data, dropping it when it is
// whitespace only and whitespace is not preserved.
func (b *builder) flushText() {
	t := b.text
	b.text = nil
	if t == nil || b.opts.whitespace {
		return
	}
	if strings.TrimSpace(t.Text) == "" {
		t.Remove()
	}
}

func (b *builder) pos() string {
	line, col := b.dec.InputPos()
	return fmt.Sprintf("%d:%d", line, col)
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
