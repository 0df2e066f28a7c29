package pdftext

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/jcanovas/mediciones/model"
)

// ExtractConfig controls how positioned text fragments are reassembled
// into words.
type ExtractConfig struct {
	// RowTolerance is the maximum Y distance (in points) between two
	// fragments that still belong to the same text row.
	// Default: 2.0.
	RowTolerance float64

	// WordGapFactor is the fraction of the font size used as the
	// horizontal gap threshold between fragments of the same word. A
	// gap wider than FontSize*WordGapFactor starts a new word.
	// Default: 0.3.
	WordGapFactor float64

	// MinWordGap is the gap threshold (in points) used when a fragment
	// carries no font size. Default: 3.0.
	MinWordGap float64
}

// DefaultExtractConfig returns the extraction defaults. They suit the
// 10-12pt body text of typical budget listings.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		RowTolerance:  2.0,
		WordGapFactor: 0.3,
		MinWordGap:    3.0,
	}
}

// Document is an open PDF ready for word extraction.
type Document struct {
	file   *os.File
	reader *pdflib.Reader
	config ExtractConfig
	logger *slog.Logger
}

// Open opens a PDF file for word extraction with default configuration.
func Open(path string) (*Document, error) {
	return OpenWithConfig(path, DefaultExtractConfig())
}

// OpenWithConfig opens a PDF file with custom extraction configuration.
func OpenWithConfig(path string, config ExtractConfig) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &Document{
		file:   f,
		reader: reader,
		config: config,
		logger: slog.Default(),
	}, nil
}

// SetLogger replaces the logger used for per-page extraction warnings.
func (d *Document) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Close releases the underlying file. Safe to call on a nil document.
func (d *Document) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	return d.file.Close()
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageWords extracts the words of page n (1-based) with their bounding
// boxes in top-down coordinates. A page that exists but carries no text,
// such as a scanned image page, yields an empty slice and no error.
func (d *Document) PageWords(n int) ([]model.Word, error) {
	if n < 1 || n > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range (1-%d)", n, d.reader.NumPage())
	}

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	if len(content.Text) == 0 {
		return nil, nil
	}

	height := pageHeight(page, content.Text)
	return assembleWords(content.Text, height, d.config), nil
}

// Pages extracts the words of every page in order. Pages that fail to
// decode are logged and returned as empty slices so page numbering stays
// aligned with the document.
func (d *Document) Pages() ([][]model.Word, error) {
	total := d.reader.NumPage()
	pages := make([][]model.Word, 0, total)

	for n := 1; n <= total; n++ {
		words, err := d.PageWords(n)
		if err != nil {
			d.logger.Warn("page extraction failed", "page", n, "error", err)
			words = nil
		}
		pages = append(pages, words)
	}

	return pages, nil
}

// pageHeight reads the page height from the MediaBox, falling back to
// the text extent when the box is missing or degenerate.
func pageHeight(page pdflib.Page, texts []pdflib.Text) float64 {
	box := page.V.Key("MediaBox")
	if !box.IsNull() && box.Len() == 4 {
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if h > 0 {
			return h
		}
	}

	var maxY float64
	for _, t := range texts {
		if top := t.Y + t.FontSize; top > maxY {
			maxY = top
		}
	}
	return maxY
}

// assembleWords merges positioned fragments into words. Fragments are
// grouped into rows by Y proximity, ordered left to right, and joined
// while the horizontal gap stays under the word threshold. Coordinates
// are flipped from PDF bottom-up Y to top-down.
func assembleWords(texts []pdflib.Text, height float64, config ExtractConfig) []model.Word {
	fragments := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		fragments = append(fragments, t)
	}
	if len(fragments) == 0 {
		return nil
	}

	// Rows are emitted top first and X-sorted within each row. No
	// page-wide resort: baseline jitter would shuffle words mid-row.
	var words []model.Word
	for _, row := range groupRows(fragments, config.RowTolerance) {
		sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
		words = appendRowWords(words, row, height, config)
	}

	return words
}

// groupRows buckets fragments whose baselines sit within tolerance of
// each other, returning rows ordered top of page first (highest PDF Y).
func groupRows(fragments []pdflib.Text, tolerance float64) [][]pdflib.Text {
	type bucket struct {
		y     float64
		texts []pdflib.Text
	}

	var buckets []bucket
	for _, t := range fragments {
		placed := false
		for i := range buckets {
			if math.Abs(t.Y-buckets[i].y) <= tolerance {
				buckets[i].texts = append(buckets[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{y: t.Y, texts: []pdflib.Text{t}})
		}
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	rows := make([][]pdflib.Text, len(buckets))
	for i, b := range buckets {
		rows[i] = b.texts
	}
	return rows
}

// appendRowWords merges one X-sorted row of fragments into words and
// appends them to dst.
func appendRowWords(dst []model.Word, row []pdflib.Text, height float64, config ExtractConfig) []model.Word {
	var (
		text    strings.Builder
		x0, x1  float64
		y, size float64
	)

	flush := func() {
		if text.Len() == 0 {
			return
		}
		top := height - y - size
		if top < 0 {
			top = 0
		}
		dst = append(dst, model.Word{
			Text:   text.String(),
			X0:     x0,
			X1:     x1,
			Top:    top,
			Bottom: height - y,
		})
		text.Reset()
	}

	for _, t := range row {
		threshold := t.FontSize * config.WordGapFactor
		if threshold <= 0 {
			threshold = config.MinWordGap
		}

		if text.Len() > 0 && t.X-x1 > threshold {
			flush()
		}
		if text.Len() == 0 {
			x0 = t.X
			y = t.Y
			size = t.FontSize
		}
		text.WriteString(t.S)
		if end := t.X + t.W; end > x1 {
			x1 = end
		}
		if t.FontSize > size {
			size = t.FontSize
		}
	}
	flush()

	return dst
}
