// Package mergeop implements the merge strategies combining a resolved
// patch value with a destination node.
//
// The strategies form a closed set selected by Kind and dispatched through
// a single table. Each has a node form and a text form:
//
//   - Add appends value nodes as last children, or appends text.
//   - Insert places value nodes next to the target, keeping their order.
//     Prepend puts the first one before the target; Append puts all of them
//     after it. Text is prepended or appended accordingly.
//   - Set replaces the target by the value nodes. A text-only value on an
//     element replaces just its direct text children.
//   - Replace merges like Set; it differs only in how the caller locates
//     destinations.
//   - TryAdd adds only values whose name is not yet present, and text only
//     where there is none.
//
// Values are always cloned before being linked into the target tree.
// Strategies return false rather than failing when there is nothing to do.
package mergeop
