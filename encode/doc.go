// Package encode encodes IR nodes to XML text.
//
// # Usage
//
//	err := encode.Encode(doc, os.Stdout, encode.EncodeIndent(2))
//
//	// compact markup, panicking on malformed trees
//	s := encode.MustString(node)
//
// Elements without children are written self-closed; an element holding a
// single empty text node is written with start and end tags.
//
// # Related Packages
//
//   - github.com/signadot/xmlpatch/ir - IR representation
//   - github.com/signadot/xmlpatch/parse - Parse text to IR
package encode
