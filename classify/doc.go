// Package classify assigns a semantic tag to each text line of a budget
// document: chapter, subchapter, line-item header, description, trailing
// numbers, total marker, table-header noise, or unclassified.
//
// Classification is an ordered rule cascade evaluated first-match-wins.
// The ordering encodes real precedence and must not be collapsed into a
// single combined pattern; in particular, trailing numeric triplets are
// extracted BEFORE the header pattern is matched, because free-text
// descriptions may themselves contain numbers that must not be mistaken
// for the quantity/price/amount tail.
//
// The classifier holds no internal state. The single piece of cross-line
// context, whether a line item is currently open, travels in a [Context]
// value passed in and returned updated:
//
//	c := classify.NewClassifier()
//	ctx := classify.Context{}
//	for _, line := range lines {
//		var cl classify.ClassifiedLine
//		cl, ctx = c.Classify(line, ctx)
//		// dispatch on cl.Tag
//	}
//
// [Classifier.ClassifyAll] runs the loop above over a whole document and
// additionally merges uppercase summary-continuation lines back into the
// preceding item header.
package classify
