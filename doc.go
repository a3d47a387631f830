// Package xmlpatch applies declarative patch operations to XML documents.
//
// A Descriptor selects context nodes with an XPath query, resolves a value
// against each of them, locates or creates a destination and merges the
// value into it with one of the strategies of package mergeop. A Generator
// instead fills a template with the results of queries against each
// matched node and splices, appends or applies the generated elements.
//
// Operations are read from <Patch> files with Decode and DecodeAll, whose
// Class attributes are resolved through a registry. A Pipeline runs them
// phase by phase, so that operations such as Deferred can postpone work to
// a later phase, and collects a Report of their outcomes.
//
// Operations never abort a batch: each reports false, or an error that is
// logged, and the next one runs.
//
// # Related Packages
//
//   - github.com/signadot/xmlpatch/query - Queries and destination resolution
//   - github.com/signadot/xmlpatch/mergeop - Merge strategies
//   - github.com/signadot/xmlpatch/eval - Templates and expressions
//   - github.com/signadot/xmlpatch/dirbuild - Build directories
package xmlpatch
