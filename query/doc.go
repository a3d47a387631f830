// Package query evaluates XPath 1.0 expressions against ir trees and
// resolves patch destinations and values.
//
// Evaluation is done by github.com/antchfx/xpath over ir.Navigator. Node-set
// results are always drained into a fresh slice before they are returned,
// so callers may freely mutate the tree while walking a result.
//
// A Resolver additionally materializes the last step of a destination path
// when it is missing:
//
//	r := query.NewResolver()
//	// creates <Stats> under each ThingDef lacking one, then selects them
//	nodes, err := r.Resolve(doc, "/Defs/ThingDef/Stats")
//
// All syntax and evaluation failures wrap ErrSyntax.
package query
