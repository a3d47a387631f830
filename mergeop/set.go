package mergeop

import (
	"slices"

	"github.com/signadot/xmlpatch/ir"
)

func setNodes(oc *OpContext, _ Strategy, values []*ir.Node, target *ir.Node) bool {
	if target.Type == ir.ElementType && onlyText(values) {
		return replaceTextNodes(oc, values, target)
	}
	return replaceTarget(oc, values, target)
}

func onlyText(values []*ir.Node) bool {
	return !slices.ContainsFunc(values, func(v *ir.Node) bool { return v.Type != ir.TextType })
}

// replaceTextNodes swaps the direct text children of target for clones of
// values, placed where the last old text child was or at the end.
func replaceTextNodes(oc *OpContext, values []*ir.Node, target *ir.Node) bool {
	var old []*ir.Node
	for _, c := range target.Children {
		if c.Type == ir.TextType {
			old = append(old, c)
		}
	}
	var at *ir.Node
	if len(old) != 0 {
		at = old[len(old)-1]
	}
	for _, v := range values {
		c := v.Clone()
		var err error
		if at == nil {
			err = target.AppendChild(c)
		} else {
			err = target.InsertAfter(c, at)
		}
		if err != nil {
			oc.tracef("set failed: "+err.Error(), target)
			return false
		}
		at = c
	}
	for _, c := range old {
		c.Remove()
	}
	oc.tracef("replaced text", target, "text", target.TextContent())
	return true
}

// replaceTarget splices clones of values into the place of target. Values
// that could not all take that place leave the tree untouched.
func replaceTarget(oc *OpContext, values []*ir.Node, target *ir.Node) bool {
	parent := target.Parent
	if parent == nil || target.Type == ir.AttrType {
		oc.tracef("cannot replace a node without parent", target)
		return false
	}
	elts := 0
	for _, v := range values {
		switch v.Type {
		case ir.AttrType, ir.DocumentType:
			oc.tracef("cannot splice "+v.Type.String()+" node", target)
			return false
		case ir.ElementType:
			elts++
		}
	}
	if parent.Type == ir.DocumentType && elts > 1 {
		oc.tracef("cannot replace the root element with several elements", target)
		return false
	}
	var next *ir.Node
	if i := target.ParentIndex + 1; i < len(parent.Children) {
		next = parent.Children[i]
	}
	oc.tracef("replacing node", target)
	target.Remove()
	for _, v := range values {
		c := v.Clone()
		var err error
		if next == nil {
			err = parent.AppendChild(c)
		} else {
			err = parent.InsertBefore(c, next)
		}
		if err != nil {
			oc.tracef("set failed: "+err.Error(), parent)
			return false
		}
	}
	return true
}

func setText(oc *OpContext, _ Strategy, text string, target *ir.Node) bool {
	oc.tracef("setting text", target, "text", text)
	return setTextOf(target, text)
}
