package eval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Env map[string]any

func evalWithNode(input string, env Env, node *ir.Node) (any, error) {
	var opts []expr.Option
	if node != nil {
		opts = exprOpts(node)
	}
	program, err := expr.Compile(input, opts...)
	if err != nil {
		return nil, err
	}
	return vm.Run(program, map[string]any(env))
}

// ExpandEnv expands $[...] expressions in the text, comment and attribute
// values of the tree rooted at node, in place.
func ExpandEnv(node *ir.Node, env Env) error {
	return node.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		switch n.Type {
		case ir.TextType, ir.AttrType, ir.CommentType:
			v, err := expandStringWithNode(n.Text, env, n)
			if err != nil {
				return false, fmt.Errorf("error expanding %s: %w", n.Path(), err)
			}
			n.Text = v
			return false, nil
		}
		return true, nil
	})
}

// ExpandString expands $[...] expressions in a string.
//
// Expressions are evaluated using expr-lang against the provided environment.
// Within expressions, backslash escaping is supported:
//   - \] → literal ] (does not close the expression)
//   - \\ → literal \
//   - \x → x (for any character x)
//
// If an expression is not closed with an unescaped ], the text is treated
// as a literal string rather than an expression.
func ExpandString(v string, env Env) (string, error) {
	return expandStringWithNode(v, env, nil)
}

func expandStringWithNode(v string, env Env, node *ir.Node) (string, error) {
	if len(v) < 3 {
		return v, nil
	}
	exprStart := -1 // position of the $ starting the expression
	i := 0
	n := len(v)
	var outBuf []byte
	var keyBuf []byte

	for i < n-1 {
		c, next := v[i], v[i+1]
		i++
		switch c {
		case '$':
			if next == '[' {
				exprStart = i - 1
				keyBuf = keyBuf[:0]
				i++
				continue
			}
			if exprStart == -1 {
				outBuf = append(outBuf, c)
			} else {
				keyBuf = append(keyBuf, c)
			}
		case '\\':
			if exprStart != -1 {
				keyBuf = append(keyBuf, next)
				i++
				continue
			}
			outBuf = append(outBuf, c)
		case ']':
			if exprStart != -1 {
				b, err := evalKey(keyBuf, env, node)
				if err != nil {
					return "", err
				}
				outBuf = append(outBuf, b...)
				exprStart = -1
				continue
			}
			outBuf = append(outBuf, c)
		default:
			if exprStart == -1 {
				outBuf = append(outBuf, c)
			} else {
				keyBuf = append(keyBuf, c)
			}
		}
	}

	if exprStart == -1 {
		if i < n {
			outBuf = append(outBuf, v[n-1])
		}
		return string(outBuf), nil
	}

	// unclosed, unless the last byte closes it
	if i >= n || v[n-1] != ']' {
		outBuf = append(outBuf, v[exprStart:n]...)
		return string(outBuf), nil
	}
	b, err := evalKey(keyBuf, env, node)
	if err != nil {
		return "", err
	}
	return string(append(outBuf, b...)), nil
}

func evalKey(keyBuf []byte, env Env, node *ir.Node) ([]byte, error) {
	key := strings.TrimSpace(string(keyBuf))
	x, err := evalWithNode(key, env, node)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", key, err)
	}
	if debug.ExpandEnv() {
		debug.Logf("eval %q gave %#v\n", key, x)
	}
	b, err := anyToBytes(x)
	if err != nil {
		return nil, fmt.Errorf("could not marshal evaluation results for %s: %w", key, err)
	}
	return b, nil
}

func anyToBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case float64:
		return []byte(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case int:
		return []byte(strconv.Itoa(x)), nil
	case bool:
		return []byte(strconv.FormatBool(x)), nil
	case json.Number:
		return []byte(x), nil
	case *ir.Node:
		return []byte(encode.MustString(x)), nil
	default:
		return json.Marshal(v)
	}
}
