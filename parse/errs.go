package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("parse error")
	ErrNoRoot        = fmt.Errorf("%w: no root element", ErrParse)
	ErrMultipleRoots = fmt.Errorf("%w: multiple root elements", ErrParse)
)
