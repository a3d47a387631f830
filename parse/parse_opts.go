package parse

type parseOpts struct {
	comments   bool
	whitespace bool
}

func newOpts(opts []ParseOption) *parseOpts {
	pOpts := &parseOpts{comments: true}
	for _, f := range opts {
		f(pOpts)
	}
	return pOpts
}

type ParseOption func(*parseOpts)

// ParseComments controls whether comments are kept as nodes. The default is
// true.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParseWhitespace keeps whitespace-only text runs, which are otherwise
// dropped.
func ParseWhitespace(v bool) ParseOption {
	return func(o *parseOpts) { o.whitespace = v }
}
