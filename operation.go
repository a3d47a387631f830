package xmlpatch

import (
	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/ir"
)

// Operation is one patch applied to a document.
//
// Apply reports whether the operation changed anything it was meant to. A
// false result with a nil error is a soft failure, such as a query matching
// nothing. Errors are hard failures of this operation only.
type Operation interface {
	Apply(ctx *Context, doc *ir.Node) (bool, error)
	String() string
}

// Apply applies op to doc, logging any error through slog.Default.
func Apply(doc *ir.Node, op Operation) bool {
	return ApplyWith(nil, doc, op)
}

// ApplyWith applies op to doc. Errors are logged through the logger of ctx
// and reported as false.
func ApplyWith(ctx *Context, doc *ir.Node, op Operation) bool {
	ok, err := op.Apply(ctx, doc)
	if debug.Apply() {
		debug.Logf("apply %s gave %t, %v\n", op, ok, err)
	}
	if err != nil {
		ctx.logger().Error("operation failed", "op", op.String(), "error", err)
		return false
	}
	return ok
}
