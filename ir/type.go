package ir

import "fmt"

type Type int

const (
	DocumentType Type = iota
	ElementType
	AttrType
	TextType
	CommentType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		DocumentType: "Document",
		ElementType:  "Element",
		AttrType:     "Attr",
		TextType:     "Text",
		CommentType:  "Comment",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Document": DocumentType,
		"Element":  ElementType,
		"Attr":     AttrType,
		"Text":     TextType,
		"Comment":  CommentType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil

}

func Types() []Type {
	return []Type{
		DocumentType,
		ElementType,
		AttrType,
		TextType,
		CommentType,
	}
}

// IsContainer reports whether nodes of type t may own child nodes.
func (t Type) IsContainer() bool {
	switch t {
	case DocumentType, ElementType:
		return true
	default:
		return false
	}
}

func (t Type) IsLeaf() bool {
	return !t.IsContainer()
}
