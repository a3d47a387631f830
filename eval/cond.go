package eval

import (
	"fmt"
	"strings"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/ir"
)

// Cond evaluates the guard expression cond against env, with the query
// functions bound to node. Strings are true unless empty or "false";
// numbers are true unless zero. Nodes in env follow ir.Truth.
func Cond(cond string, env Env, node *ir.Node) (bool, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true, nil
	}
	x, err := evalWithNode(cond, env, node)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrCond, cond, err)
	}
	if debug.ExpandEnv() {
		debug.Logf("cond %q gave %#v\n", cond, x)
	}
	switch v := x.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		return ir.Truth(ir.NewText(v)), nil
	case *ir.Node:
		return ir.Truth(v), nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("%w: %q yields %T", ErrCond, cond, x)
	}
}
