// Package structure assembles a classified line stream into the recursive
// budget tree: Project, Chapters, nested Subchapters, Apartados and
// LineItems.
//
// The [Builder] is a state machine over one forward pass of the stream.
// Its state is explicit: the current chapter, a per-chapter code lookup
// map, the deepest open subchapter, the open apartado and the pending
// line item. Each classified tag has exactly one transition.
//
// Documents routinely skip hierarchy levels ("01.04.01" may appear before
// any "01.04"); the builder repairs the gap by synthesizing the missing
// ancestors with generated placeholder names rather than rejecting the
// child. Items whose amount resolves to zero are discarded as extraction
// noise and counted, never kept.
//
// After the pass, [Reconcile] computes missing totals bottom-up (children
// before parents, explicitly declared totals always win) and reports every
// node whose declared total disagrees with the sum of its children. The
// discrepancies are findings for follow-up, never auto-corrected.
package structure
