package mergeop

import (
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

func addNodes(oc *OpContext, _ Strategy, values []*ir.Node, target *ir.Node) bool {
	if !target.Type.IsContainer() {
		oc.tracef("cannot add nodes to "+target.Type.String(), target)
		return false
	}
	added := false
	for _, v := range values {
		c := v.Clone()
		if err := target.AppendChild(c); err != nil {
			oc.tracef("add failed: "+err.Error(), target)
			continue
		}
		oc.tracef("added node", target, "node", encode.MustString(c))
		added = true
	}
	return added
}

func addText(oc *OpContext, _ Strategy, text string, target *ir.Node) bool {
	oc.tracef("adding text", target, "text", text)
	return setTextOf(target, textOf(target)+text)
}
