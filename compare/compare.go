package compare

import (
	"math"

	"github.com/jcanovas/mediciones/model"
)

// Reason explains why a node ended up in the discrepancy list.
type Reason string

const (
	// ReasonTotalMismatch means both trees hold the node but the totals
	// differ beyond the currency tolerance.
	ReasonTotalMismatch Reason = "total-mismatch"

	// ReasonMissingNode means the node exists in only one tree.
	ReasonMissingNode Reason = "missing-node"

	// ReasonEmptyLeaf means a leaf section carries no line items in at
	// least one tree, which almost always indicates a failed extraction
	// rather than a genuinely empty section.
	ReasonEmptyLeaf Reason = "empty-leaf"
)

// Discrepancy describes one node that failed cross-validation, with both
// sides' figures so a re-extraction pass can target it.
type Discrepancy struct {
	Code   string
	Name   string
	Reason Reason

	TotalA float64
	TotalB float64
	ItemsA int
	ItemsB int

	DiffAbs float64
	DiffPct float64
}

// Report is the outcome of comparing two trees.
type Report struct {
	// Validated and Discrepant count leaf sections only.
	Validated  int
	Discrepant int

	// MatchPercent is the global agreement of the two project totals,
	// 100 meaning identical.
	MatchPercent float64

	Discrepancies []Discrepancy
}

// ComparatorConfig holds configuration for tree comparison.
type ComparatorConfig struct {
	// CurrencyTolerance is the absolute difference, in currency units,
	// below which two totals count as equal. Default: 0.01.
	CurrencyTolerance float64
}

// DefaultComparatorConfig returns sensible default configuration.
func DefaultComparatorConfig() ComparatorConfig {
	return ComparatorConfig{CurrencyTolerance: 0.01}
}

// Comparator cross-validates budget trees.
type Comparator struct {
	config ComparatorConfig
}

// NewComparator creates a comparator with default configuration.
func NewComparator() *Comparator {
	return &Comparator{config: DefaultComparatorConfig()}
}

// NewComparatorWithConfig creates a comparator with custom configuration.
func NewComparatorWithConfig(config ComparatorConfig) *Comparator {
	return &Comparator{config: config}
}

// Compare walks both trees by code and returns the validation report.
// Tree a is conventionally the deterministic parse, tree b the alternate
// extraction; the report is symmetric except for that labeling.
func (c *Comparator) Compare(a, b *model.Project) *Report {
	rep := &Report{}

	bChapters := make(map[string]*model.Chapter, len(b.Chapters))
	for _, ch := range b.Chapters {
		bChapters[ch.Code] = ch
	}
	seen := make(map[string]bool)

	for _, chA := range a.Chapters {
		chB, ok := bChapters[chA.Code]
		if !ok {
			rep.flagMissing(chA.Code, chA.Name, chA.Total, 0, countChapterItems(chA), 0)
			continue
		}
		seen[chA.Code] = true
		c.compareChapter(rep, chA, chB)
	}
	for _, chB := range b.Chapters {
		if !seen[chB.Code] {
			rep.flagMissing(chB.Code, chB.Name, 0, chB.Total, 0, countChapterItems(chB))
		}
	}

	rep.MatchPercent = c.matchPercent(a.Total(), b.Total())
	return rep
}

func (c *Comparator) compareChapter(rep *Report, a, b *model.Chapter) {
	bSubs := make(map[string]*model.Subchapter, len(b.Subchapters))
	for _, s := range b.Subchapters {
		bSubs[s.Code] = s
	}
	seen := make(map[string]bool)

	for _, sA := range a.Subchapters {
		sB, ok := bSubs[sA.Code]
		if !ok {
			rep.flagMissing(sA.Code, sA.Name, sA.Total, 0, countSubchapterItems(sA), 0)
			continue
		}
		seen[sA.Code] = true
		c.compareSubchapter(rep, sA, sB)
	}
	for _, sB := range b.Subchapters {
		if !seen[sB.Code] {
			rep.flagMissing(sB.Code, sB.Name, 0, sB.Total, 0, countSubchapterItems(sB))
		}
	}

	// A chapter with no subchapters is itself the leaf; with subchapters
	// its total is aggregation, validated implicitly through them.
	if len(a.Subchapters) == 0 && len(b.Subchapters) == 0 {
		c.compareLeaf(rep, a.Code, a.Name, a.Total, b.Total, len(a.Items), len(b.Items))
	}
}

func (c *Comparator) compareSubchapter(rep *Report, a, b *model.Subchapter) {
	if len(a.Subchapters) > 0 || len(b.Subchapters) > 0 {
		bSubs := make(map[string]*model.Subchapter, len(b.Subchapters))
		for _, s := range b.Subchapters {
			bSubs[s.Code] = s
		}
		seen := make(map[string]bool)

		for _, sA := range a.Subchapters {
			sB, ok := bSubs[sA.Code]
			if !ok {
				rep.flagMissing(sA.Code, sA.Name, sA.Total, 0, countSubchapterItems(sA), 0)
				continue
			}
			seen[sA.Code] = true
			c.compareSubchapter(rep, sA, sB)
		}
		for _, sB := range b.Subchapters {
			if !seen[sB.Code] {
				rep.flagMissing(sB.Code, sB.Name, 0, sB.Total, 0, countSubchapterItems(sB))
			}
		}
		return
	}

	c.compareLeaf(rep, a.Code, a.Name, a.Total, b.Total,
		countSubchapterItems(a), countSubchapterItems(b))
}

// compareLeaf is the only place validated/discrepant counters move.
func (c *Comparator) compareLeaf(rep *Report, code, name string, totalA, totalB float64, itemsA, itemsB int) {
	d := Discrepancy{
		Code: code, Name: name,
		TotalA: totalA, TotalB: totalB,
		ItemsA: itemsA, ItemsB: itemsB,
	}
	d.DiffAbs = math.Abs(totalA - totalB)
	if totalA != 0 {
		d.DiffPct = d.DiffAbs / math.Abs(totalA) * 100
	}

	if itemsA == 0 || itemsB == 0 {
		d.Reason = ReasonEmptyLeaf
		rep.Discrepant++
		rep.Discrepancies = append(rep.Discrepancies, d)
		return
	}

	if d.DiffAbs < c.config.CurrencyTolerance {
		rep.Validated++
		return
	}

	d.Reason = ReasonTotalMismatch
	rep.Discrepant++
	rep.Discrepancies = append(rep.Discrepancies, d)
}

func (c *Comparator) matchPercent(totalA, totalB float64) float64 {
	if totalA == 0 {
		return 0
	}
	pct := 100 - math.Abs(totalA-totalB)/math.Abs(totalA)*100
	if pct < 0 {
		return 0
	}
	return pct
}

func (r *Report) flagMissing(code, name string, totalA, totalB float64, itemsA, itemsB int) {
	r.Discrepant++
	r.Discrepancies = append(r.Discrepancies, Discrepancy{
		Code: code, Name: name,
		Reason:  ReasonMissingNode,
		TotalA:  totalA,
		TotalB:  totalB,
		ItemsA:  itemsA,
		ItemsB:  itemsB,
		DiffAbs: math.Abs(totalA - totalB),
		DiffPct: 100,
	})
}

func countChapterItems(ch *model.Chapter) int {
	n := len(ch.Items)
	for _, s := range ch.Subchapters {
		n += countSubchapterItems(s)
	}
	return n
}

func countSubchapterItems(s *model.Subchapter) int {
	n := len(s.Items)
	for _, a := range s.Apartados {
		n += len(a.Items)
	}
	for _, child := range s.Subchapters {
		n += countSubchapterItems(child)
	}
	return n
}

// MergeChapter replaces (or appends) one chapter of the destination tree
// by code identity. Re-extraction requests fan out per chapter and finish
// out of order; merging by code keeps the result deterministic.
func MergeChapter(dst *model.Project, ch *model.Chapter) {
	for i, existing := range dst.Chapters {
		if existing.Code == ch.Code {
			ch.Order = existing.Order
			dst.Chapters[i] = ch
			return
		}
	}
	dst.AddChapter(ch)
}
