package mergeop

import (
	"log/slog"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/ir"
)

// OpContext carries the reporting options of the operation invoking a
// strategy. A nil *OpContext is valid and silent.
type OpContext struct {
	// Debug enables Info level tracing of each edit through Log.
	Debug bool
	Log   *slog.Logger
	// Op names the invoking operation in log lines.
	Op string
}

func (c *OpContext) tracef(msg string, target *ir.Node, args ...any) {
	if debug.Merge() {
		debug.Logf("%s: %s at %s\n", c.op(), msg, target.Path())
	}
	if c == nil || !c.Debug {
		return
	}
	l := c.Log
	if l == nil {
		l = slog.Default()
	}
	l.Info(msg, append([]any{"op", c.Op, "target", target.Path()}, args...)...)
}

func (c *OpContext) op() string {
	if c == nil {
		return "merge"
	}
	return c.Op
}
