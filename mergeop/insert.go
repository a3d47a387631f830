package mergeop

import (
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

// insertNodes places clones of values next to target. With Prepend the
// first clone goes before target and each later one after the previous
// clone, so values keep their order either way.
func insertNodes(oc *OpContext, s Strategy, values []*ir.Node, target *ir.Node) bool {
	parent := target.Parent
	if parent == nil || target.Type == ir.AttrType {
		oc.tracef("cannot insert next to a node without parent", target)
		return false
	}
	order := s.Order
	at := target
	for _, v := range values {
		c := v.Clone()
		var err error
		if order == Prepend {
			err = parent.InsertBefore(c, at)
			order = Append
		} else {
			err = parent.InsertAfter(c, at)
		}
		if err != nil {
			oc.tracef("insert failed: "+err.Error(), target)
			return false
		}
		oc.tracef("inserted node", target, "node", encode.MustString(c))
		at = c
	}
	return true
}

func insertText(oc *OpContext, s Strategy, text string, target *ir.Node) bool {
	old := textOf(target)
	oc.tracef("inserting text", target, "text", text, "order", s.Order.String())
	if s.Order == Prepend {
		return setTextOf(target, text+old)
	}
	return setTextOf(target, old+text)
}
