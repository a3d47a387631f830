package xmlpatch

import (
	"fmt"

	"github.com/signadot/xmlpatch/ir"
)

// Deferred postpones Op to the deferred phase of the running pipeline.
type Deferred struct {
	Class  string
	Source string
	Op     Operation
	Debug  bool
}

func (d *Deferred) String() string {
	if d.Class == "" {
		return "Deferred"
	}
	return d.Class
}

func (d *Deferred) Apply(ctx *Context, _ *ir.Node) (bool, error) {
	if d.Debug {
		ctx.logger().Info(fmt.Sprintf("DEBUG: Running '%s' from file '%s' with operation '%v'.", d, d.Source, d.Op))
	}
	if d.Op == nil {
		return false, &Error{Op: d.String(), Source: d.Source, Err: fmt.Errorf("%w: operation", ErrMissingField)}
	}
	p := ctx.pipeline()
	if p == nil {
		return false, &Error{Op: d.String(), Source: d.Source, Err: ErrNoPipeline}
	}
	p.Enqueue(PhaseDeferred, d.Op, d.Source)
	return true, nil
}
