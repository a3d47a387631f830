package encode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/xmlpatch/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	decl          bool
	comments      bool

	Color func(ir.Type, ColorAttr, string) string
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

// Encode writes node as XML. Without EncodeIndent the output is compact and
// preserves text exactly; with it, elements holding no text are laid out one
// child per line.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{comments: true}
	for _, opt := range opts {
		opt(es)
	}
	if es.decl {
		if err := writeString(w, `<?xml version="1.0" encoding="utf-8"?>`); err != nil {
			return err
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	if es.indent > 0 {
		return writeString(w, "\n")
	}
	return nil
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.DocumentType:
		return encodeChildren(node, w, es, es.indent > 0)
	case ir.ElementType:
		return encodeElement(node, w, es)
	case ir.AttrType:
		return writeAttr(w, node, es)
	case ir.TextType:
		return writeString(w, es.color(ir.TextType, TextColor, textEscaper.Replace(node.Text)))
	case ir.CommentType:
		if !es.comments {
			return nil
		}
		if strings.Contains(node.Text, "--") {
			return fmt.Errorf("%w: comment contains \"--\" at %s", ErrEncoding, node.Path())
		}
		return writeString(w, es.color(ir.CommentType, CommentColor, "<!--"+node.Text+"-->"))
	default:
		return fmt.Errorf("%w: unknown node type %d", ErrEncoding, node.Type)
	}
}

func encodeElement(node *ir.Node, w io.Writer, es *EncState) error {
	if node.Name == "" {
		return fmt.Errorf("%w: element without a name at %s", ErrEncoding, node.Path())
	}
	if err := writeString(w, es.color(ir.ElementType, SepColor, "<")+es.color(ir.ElementType, NameColor, node.Name)); err != nil {
		return err
	}
	for _, a := range node.Attrs {
		if err := writeString(w, " "); err != nil {
			return err
		}
		if err := writeAttr(w, a, es); err != nil {
			return err
		}
	}
	if len(node.Children) == 0 {
		return writeString(w, es.color(ir.ElementType, SepColor, "/>"))
	}
	if err := writeString(w, es.color(ir.ElementType, SepColor, ">")); err != nil {
		return err
	}
	pretty := es.indent > 0 && !node.HasTextChild()
	es.depth++
	if err := encodeChildren(node, w, es, pretty); err != nil {
		return err
	}
	es.depth--
	if pretty {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeString(w, es.color(ir.ElementType, SepColor, "</")+
		es.color(ir.ElementType, NameColor, node.Name)+
		es.color(ir.ElementType, SepColor, ">"))
}

func encodeChildren(node *ir.Node, w io.Writer, es *EncState, pretty bool) error {
	for i, c := range node.Children {
		if pretty && (i > 0 || node.Type == ir.ElementType) {
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		if err := encode(c, w, es); err != nil {
			return err
		}
	}
	return nil
}

func writeAttr(w io.Writer, a *ir.Node, es *EncState) error {
	return writeString(w, es.color(ir.AttrType, NameColor, a.Name)+
		es.color(ir.AttrType, SepColor, "=\"")+
		es.color(ir.AttrType, ValueColor, attrEscaper.Replace(a.Text))+
		es.color(ir.AttrType, SepColor, "\""))
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func writeNL(w io.Writer, es *EncState) error {
	if es.indent == 0 {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}
