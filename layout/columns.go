package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/jcanovas/mediciones/model"
)

// PageType classifies the overall layout of a page.
type PageType int

const (
	PageEmpty PageType = iota
	PageSingleColumn
	PageMultiColumn
)

// String returns a string representation of the page type.
func (t PageType) String() string {
	switch t {
	case PageSingleColumn:
		return "single-column"
	case PageMultiColumn:
		return "multi-column"
	default:
		return "empty"
	}
}

// Orientation is the detected page orientation based on the content extent.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// String returns a string representation of the orientation.
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ColumnRange is the horizontal extent of one detected column.
type ColumnRange struct {
	XMin float64
	XMax float64
}

// Width returns the horizontal extent of the column.
func (r ColumnRange) Width() float64 {
	return r.XMax - r.XMin
}

// PageLayout describes the detected column structure of one page.
type PageLayout struct {
	// Type is empty/single/multi classification. An empty page is not an
	// error; it simply contributes no lines.
	Type PageType

	// Columns in left-to-right order. Empty for an empty page.
	Columns []ColumnRange

	Orientation Orientation

	// Content extent of the page, derived from the words themselves.
	Width  float64
	Height float64
}

// ColumnCount returns the number of detected columns.
func (l PageLayout) ColumnCount() int {
	return len(l.Columns)
}

// ColumnConfig holds configuration for column detection.
type ColumnConfig struct {
	// BinSize is the histogram bin width, in page units, used to bucket
	// word start positions. Default: 10.
	BinSize float64

	// GapThreshold is the minimum empty horizontal span, in page units,
	// to treat as a column separator. Default: 50.
	GapThreshold float64

	// MinColumnWidth is the minimum width for a region to count as a
	// column. Gaps producing narrower regions are ignored. Default: 150.
	MinColumnWidth float64

	// LineTolerance is the maximum vertical-center distance, in page
	// units, for two words to share a line. Default: 5.
	LineTolerance float64
}

// DefaultColumnConfig returns sensible default configuration.
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		BinSize:        10.0,
		GapThreshold:   50.0,
		MinColumnWidth: 150.0,
		LineTolerance:  5.0,
	}
}

// ColumnDetector detects multi-column layouts from word positions.
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a detector with default configuration.
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{config: DefaultColumnConfig()}
}

// NewColumnDetectorWithConfig creates a detector with custom configuration.
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

// Detect returns the number of columns and their horizontal ranges.
// Single column is the common case and stays cheap: one histogram pass and
// a scan for gaps.
func (d *ColumnDetector) Detect(words []model.Word) (int, []ColumnRange) {
	if len(words) == 0 {
		return 1, nil
	}

	xMin := words[0].X0
	xMax := words[0].X1
	for _, w := range words {
		if w.X0 < xMin {
			xMin = w.X0
		}
		// Use the word end for the right edge so trailing decimal digits
		// are never cut off the last column.
		if w.X1 > xMax {
			xMax = w.X1
		}
	}

	// Histogram of word start positions.
	bins := make(map[int]int)
	for _, w := range words {
		bins[int((w.X0-xMin)/d.config.BinSize)]++
	}

	occupied := make([]int, 0, len(bins))
	for b := range bins {
		occupied = append(occupied, b)
	}
	sort.Ints(occupied)

	// Gaps between consecutive occupied bins become candidate boundaries.
	var gapCenters []float64
	for i := 0; i < len(occupied)-1; i++ {
		gap := float64(occupied[i+1]-occupied[i]) * d.config.BinSize
		if gap > d.config.GapThreshold {
			center := xMin + float64(occupied[i]+occupied[i+1])/2*d.config.BinSize
			gapCenters = append(gapCenters, center)
		}
	}

	if len(gapCenters) == 0 {
		return 1, []ColumnRange{{XMin: xMin, XMax: xMax}}
	}

	// Split at gap centers, keeping only ranges wide enough to be columns.
	var ranges []ColumnRange
	prev := xMin
	for _, center := range gapCenters {
		if center-prev >= d.config.MinColumnWidth {
			ranges = append(ranges, ColumnRange{XMin: prev, XMax: center})
			prev = center
		}
	}
	if xMax-prev >= d.config.MinColumnWidth {
		ranges = append(ranges, ColumnRange{XMin: prev, XMax: xMax})
	}

	if len(ranges) == 0 {
		return 1, []ColumnRange{{XMin: xMin, XMax: xMax}}
	}

	return len(ranges), ranges
}

// Analyze returns the full page layout classification.
func (d *ColumnDetector) Analyze(words []model.Word) PageLayout {
	if len(words) == 0 {
		return PageLayout{Type: PageEmpty}
	}

	count, ranges := d.Detect(words)

	bb := model.WordsBBox(words)
	orientation := Portrait
	if bb.Width > bb.Height {
		orientation = Landscape
	}

	pageType := PageSingleColumn
	if count > 1 {
		pageType = PageMultiColumn
	}

	return PageLayout{
		Type:        pageType,
		Columns:     ranges,
		Orientation: orientation,
		Width:       bb.Width,
		Height:      bb.Height,
	}
}

// AssembleLines converts page words into ordered text lines. Multi-column
// pages are read column by column: every line of the first column before
// any line of the second, never interleaved by vertical position.
func (d *ColumnDetector) AssembleLines(words []model.Word) []string {
	if len(words) == 0 {
		return nil
	}

	count, ranges := d.Detect(words)
	if count <= 1 {
		return d.assembleColumn(words)
	}

	// Each column becomes a band spanning the page's vertical extent; a
	// word belongs to the band holding its center, so a word straddling
	// the gap follows its bulk.
	page := model.WordsBBox(words)
	bands := make([]model.BBox, len(ranges))
	for i, r := range ranges {
		bands[i] = model.NewBBox(r.XMin, page.Y, r.Width(), page.Height)
	}

	columns := make([][]model.Word, count)
	for _, w := range words {
		i := bandIndex(bands, w)
		columns[i] = append(columns[i], w)
	}

	var lines []string
	for _, colWords := range columns {
		lines = append(lines, d.assembleColumn(colWords)...)
	}
	return lines
}

// bandIndex returns the band containing the word's center. Words whose
// center falls outside every band (inside a discarded narrow region) go to
// the nearest band rather than being dropped.
func bandIndex(bands []model.BBox, w model.Word) int {
	center := w.BBox().Center()
	for i, b := range bands {
		if b.Contains(center) {
			return i
		}
	}
	best := 0
	bestDist := math.Inf(1)
	for i, b := range bands {
		if d := center.Distance(b.Center()); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// assembleColumn groups one column's words into lines: sort by vertical
// center, start a new line whenever a word drifts beyond the vertical
// tolerance, then order each line's words left to right and join with
// spaces. Words on the same physical line may differ slightly in baseline,
// so the left-to-right ordering happens per line, after grouping.
func (d *ColumnDetector) assembleColumn(words []model.Word) []string {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]model.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CenterY() < sorted[j].CenterY()
	})

	var lines []string
	var current []model.Word
	currentY := 0.0

	flush := func() {
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].X0 < current[j].X0
		})
		texts := make([]string, len(current))
		for i, w := range current {
			texts[i] = w.Text
		}
		lines = append(lines, strings.Join(texts, " "))
		current = current[:0]
	}

	for _, w := range sorted {
		if len(current) > 0 && absFloat64(w.CenterY()-currentY) > d.config.LineTolerance {
			flush()
		}
		current = append(current, w)
		currentY = w.CenterY()
	}

	if len(current) > 0 {
		flush()
	}

	return lines
}

func absFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
