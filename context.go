package xmlpatch

import (
	"log/slog"

	"github.com/signadot/xmlpatch/eval"
)

// Context carries what operations need besides the document. A nil
// *Context logs to slog.Default and has no pipeline.
type Context struct {
	Log *slog.Logger
	// Env is the environment of if guards.
	Env eval.Env
	// Pipeline receives deferred operations.
	Pipeline *Pipeline
	// Source names the file the running operations were loaded from.
	Source string
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

func (c *Context) env() eval.Env {
	if c == nil {
		return nil
	}
	return c.Env
}

func (c *Context) pipeline() *Pipeline {
	if c == nil {
		return nil
	}
	return c.Pipeline
}
