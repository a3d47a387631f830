// Package parse parses XML text into IR nodes.
//
// # Usage
//
//	doc, err := parse.Parse(data)
//	if err != nil {
//	    return err
//	}
//
//	// a single detached element
//	el, err := parse.ParseFragment(`<li>Bow</li>`)
//
//	// mixed content, as found inside a <value> element
//	nodes, err := parse.ParseNodes(`text <b>bold</b> more`)
//
// Whitespace-only text runs are dropped unless ParseWhitespace(true) is
// given; comments are kept unless ParseComments(false) is given. Namespace
// prefixes are preserved verbatim in node names. Processing instructions and
// DOCTYPE declarations are skipped.
//
// All errors wrap ErrParse.
//
// # Related Packages
//
//   - github.com/signadot/xmlpatch/ir - IR representation
//   - github.com/signadot/xmlpatch/encode - Encode IR to text
package parse
