// Package eval provides the expression layers of xmlpatch.
//
// Substitute fills {query} placeholders of operation templates with the
// results of XPath queries. ExpandEnv and ExpandString expand $[expr]
// expressions, evaluated with expr-lang against an Env, and Cond evaluates
// the same expressions as operation guards. Expressions can call
// whereami(), xpath(q), nodecount(q), exists(q) and getenv(name).
//
// # Related Packages
//
//   - github.com/signadot/xmlpatch/query - Query evaluation
//   - github.com/signadot/xmlpatch/dirbuild - Build environments
package eval
