package query

import "errors"

var ErrSyntax = errors.New("query syntax error")
