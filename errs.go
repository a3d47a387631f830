package xmlpatch

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrNoMatch      = errors.New("no match")
	ErrDecode       = errors.New("decode error")
	ErrUnknownClass = errors.New("unknown operation class")
	ErrClassExists  = errors.New("operation class exists")
	ErrNoPipeline   = errors.New("no pipeline")
	ErrPhasePassed  = errors.New("phase already ran")
)

// Error reports the failure of one operation together with where it came
// from.
type Error struct {
	Op     string
	Source string
	Query  string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("'%s'", e.Op)
	if e.Source != "" {
		msg += fmt.Sprintf(" in file '%s'", e.Source)
	}
	if e.Query != "" {
		msg += fmt.Sprintf(" with query '%s'", e.Query)
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
