package eval

import "errors"

var (
	ErrBraceMismatch = errors.New("brace mismatch")
	ErrCond          = errors.New("condition error")
)
