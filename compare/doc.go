// Package compare cross-validates two independently produced budget trees
// for the same project, typically the deterministic parse against an
// LLM-extracted structure.
//
// Matching is by section code. Totals are compared for exact equality
// within a small currency tolerance (0.01 by default), deliberately NOT a
// percentage: a relative tolerance would mask small-but-real
// discrepancies on large sections. Only leaf sections, the ones owning
// line items, count toward the validated/discrepant statistics; parent
// sections are checked but not counted, since their totals are pure
// aggregation and would double-count every mismatch below them. A leaf
// present in only one tree, or present with no items, is flagged as a
// likely extraction failure rather than silently skipped.
//
// The [Report] lists every discrepant node with both totals and item
// counts, the shape needed to drive a targeted re-extraction pass;
// [MergeChapter] folds such a re-extracted chapter back into a tree by
// code identity, tolerating out-of-order completion.
package compare
