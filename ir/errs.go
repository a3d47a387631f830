package ir

import (
	"errors"
)

var (
	ErrNotContainer = errors.New("node cannot have children")
	ErrNotChild     = errors.New("reference node is not a child")
	ErrSecondRoot   = errors.New("document already has a root element")
)
