package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

type XML struct{ *ir.Node }

func (y XML) String() string {
	s, err := nodeString(y.Node)
	if err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", y.Node)
	}
	return s
}

// Logf writes to stderr, rendering *ir.Node and []*ir.Node arguments as
// XML and maps as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = XML{x}.String()
		case []*ir.Node:
			ss := make([]string, len(x))
			for j, n := range x {
				ss[j] = XML{n}.String()
			}
			args[i] = ss
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func nodeString(n *ir.Node) (string, error) {
	if n == nil {
		return "<nil>", nil
	}
	if n.Type == ir.AttrType {
		return "@" + n.Name + "=" + fmt.Sprintf("%q", n.Text), nil
	}
	return encodeString(n)
}

func encodeString(n *ir.Node) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return encode.MustString(n), nil
}
