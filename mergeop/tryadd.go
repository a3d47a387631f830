package mergeop

import (
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

// tryAddNodes appends clones of the values whose name is not yet taken by
// a child of target, counting children added by earlier values.
//
// The result is len(values) > 0 whether or not anything was added.
func tryAddNodes(oc *OpContext, s Strategy, values []*ir.Node, target *ir.Node) bool {
	for _, v := range values {
		if v.IsBlank() {
			continue
		}
		if collides(v, target.Children) {
			oc.tracef("skipping present "+v.NodeName(), target)
			continue
		}
		if v.Type == ir.TextType {
			tryAddTextNode(oc, v, target)
			continue
		}
		if !target.Type.IsContainer() {
			oc.tracef("cannot add nodes to "+target.Type.String(), target)
			continue
		}
		c := v.Clone()
		if err := target.AppendChild(c); err != nil {
			oc.tracef("add failed: "+err.Error(), target)
			continue
		}
		oc.tracef("added node", target, "node", encode.MustString(c))
	}
	return len(values) > 0
}

func collides(v *ir.Node, existing []*ir.Node) bool {
	for _, c := range existing {
		if v.Type == ir.TextType {
			if c.Type == ir.TextType && c.Text != "" {
				return true
			}
			continue
		}
		if c.NodeName() == v.NodeName() {
			return true
		}
	}
	return false
}

// tryAddTextNode adds text v to target, which holds no non-empty text. An
// empty text child left by destination creation is replaced.
func tryAddTextNode(oc *OpContext, v *ir.Node, target *ir.Node) {
	switch target.Type {
	case ir.AttrType:
		if target.Text == "" {
			target.Text = v.Text
			oc.tracef("set attribute", target, "text", v.Text)
		}
		return
	case ir.ElementType:
	default:
		return
	}
	var empty *ir.Node
	for _, e := range target.Children {
		if e.Type == ir.TextType {
			empty = e
			break
		}
	}
	c := v.Clone()
	if err := target.AppendChild(c); err != nil {
		return
	}
	if empty != nil {
		empty.Remove()
	}
	oc.tracef("added text", target, "text", v.Text)
}

func tryAddText(oc *OpContext, s Strategy, text string, target *ir.Node) bool {
	if textOf(target) != "" {
		oc.tracef("text already present", target)
		return false
	}
	return addText(oc, s, text, target)
}
