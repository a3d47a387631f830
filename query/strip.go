package query

import "strings"

const textStep = "text()"

// StripFunctionCall removes a trailing function-call step from p, as in
// "/Defs/ThingDef/node()" -> "/Defs/ThingDef". A trailing text() step is
// kept since it names a creatable node. Expressions that are a call as a
// whole, such as "count(/a/b)", are returned unchanged.
func StripFunctionCall(p string) string {
	if !strings.HasSuffix(p, ")") {
		return p
	}
	depth := 0
	for i := len(p) - 1; i >= 0; i-- {
		switch p[i] {
		case ')':
			depth++
		case '(':
			depth--
		case '/':
			if depth != 0 {
				continue
			}
			if p[i+1:] == textStep {
				return p
			}
			return p[:i]
		}
	}
	return p
}

// ParentPath splits p at its last step separator. ok is false when p has
// no parent that may be resolved on its own: a single step, an absolute
// path of one step, a path ending in a predicate, or a descendant step.
func ParentPath(p string) (parent, step string, ok bool) {
	i := strings.LastIndexAny(p, "/]")
	if i <= 0 || p[i] != '/' || p[i-1] == '/' {
		return "", "", false
	}
	return p[:i], p[i+1:], true
}

// IsBareStep reports whether p is one step with no separators or
// predicates.
func IsBareStep(p string) bool {
	return p != "" && !strings.ContainsAny(p, "/[]")
}
