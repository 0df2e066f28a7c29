// Package layout analyzes the spatial distribution of words on a page to
// normalize multi-column PDF text into a single reading order.
//
// Budget documents are sometimes printed in two (or more) parallel columns;
// reading such a page strictly top-to-bottom interleaves unrelated chapters
// that happen to sit at the same height. The [ColumnDetector] finds column
// boundaries by gap analysis on a histogram of word start positions, then
// assembles lines column by column: all lines of column 1 first, then all
// lines of column 2, and so on.
//
//	detector := layout.NewColumnDetector()
//	lines := detector.AssembleLines(words)
//
// [ColumnDetector.Analyze] additionally reports the page classification
// (empty, single column, multi column) and orientation.
package layout
