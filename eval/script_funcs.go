package eval

import (
	"os"

	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/query"

	"github.com/expr-lang/expr"
)

func exprOpts(node *ir.Node) []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			return node.Path(), nil
		},
			new(func() string)),
		expr.Function("xpath", func(params ...any) (any, error) {
			res, err := query.Eval(node, params[0].(string))
			if err != nil {
				return nil, err
			}
			return res.Text(), nil
		},
			new(func(string) string)),
		expr.Function("nodecount", func(params ...any) (any, error) {
			nodes, err := query.Select(node, params[0].(string))
			if err != nil {
				return nil, err
			}
			return len(nodes), nil
		},
			new(func(string) int)),
		expr.Function("exists", func(params ...any) (any, error) {
			nodes, err := query.Select(node, params[0].(string))
			if err != nil {
				return nil, err
			}
			return len(nodes) != 0, nil
		},
			new(func(string) bool)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}
