package xmlpatch

import (
	"fmt"

	"github.com/signadot/xmlpatch/ir"
)

// Sequence applies its operations in order and stops at the first one that
// does not succeed.
type Sequence struct {
	Class  string
	Source string
	Ops    []Operation
}

func (s *Sequence) String() string {
	class := s.Class
	if class == "" {
		class = "Sequence"
	}
	return fmt.Sprintf("%s(%d operations)", class, len(s.Ops))
}

func (s *Sequence) Apply(ctx *Context, doc *ir.Node) (bool, error) {
	for i, op := range s.Ops {
		ok, err := op.Apply(ctx, doc)
		if err != nil {
			return false, &Error{Op: s.String(), Source: s.Source, Err: fmt.Errorf("operation %d: %w", i, err)}
		}
		if !ok {
			ctx.logger().Error("sequence stopped", "op", s.String(), "source", s.Source, "failed", op.String())
			return false, nil
		}
	}
	return true, nil
}
