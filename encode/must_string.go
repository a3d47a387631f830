package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/xmlpatch/ir"
)

func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// InnerXML returns the compact markup of the children of node, without the
// node's own tags.
func InnerXML(node *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	for _, c := range node.Children {
		if err := Encode(c, buf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
