package mediciones

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jcanovas/mediciones/classify"
	"github.com/jcanovas/mediciones/layout"
	"github.com/jcanovas/mediciones/model"
	"github.com/jcanovas/mediciones/pdftext"
	"github.com/jcanovas/mediciones/structure"
)

// ErrNoLines is returned when extraction yields no text lines at all,
// for example when every page of the document is a scanned image and no
// OCR source was provided. It is the only fatal parsing condition; any
// malformed content inside the document degrades to warnings instead.
var ErrNoLines = errors.New("no text lines extracted from document")

// Parser provides a fluent interface for parsing budget documents.
// Each configuration method returns a new Parser instance, making it
// safe for concurrent use and allowing method chaining.
type Parser struct {
	// Source
	filename string
	source   WordSource

	// Lifecycle
	doc     *pdftext.Document // owned pdftext reader, nil when source was injected
	ownsDoc bool
	opened  bool

	// Configuration
	options ParseOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Parser with a deep copy of options.
// Each chain method returns a new instance.
func (p *Parser) clone() *Parser {
	return &Parser{
		filename: p.filename,
		source:   p.source,
		doc:      p.doc,
		ownsDoc:  p.ownsDoc,
		opened:   p.opened,
		options:  p.options.clone(),
		err:      p.err,
	}
}

// ensureSource opens the word source if not already open.
func (p *Parser) ensureSource() error {
	if p.opened || p.source != nil {
		p.opened = true
		return nil
	}
	if p.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	doc, err := pdftext.Open(p.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	doc.SetLogger(p.options.logger)
	p.doc = doc
	p.source = doc
	p.ownsDoc = true
	p.opened = true
	return nil
}

// Close releases resources associated with the Parser.
// It is safe to call Close multiple times.
func (p *Parser) Close() error {
	if p.ownsDoc && p.doc != nil {
		err := p.doc.Close()
		p.doc = nil
		p.ownsDoc = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Parser instance)
// ============================================================================

// Pages specifies which pages to parse (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	result, err := mediciones.Open("presupuesto.pdf").Pages(1, 3, 5).Parse()
func (p *Parser) Pages(pages ...int) *Parser {
	newP := p.clone()
	newP.options.pages = append(newP.options.pages, pages...)
	return newP
}

// PageRange specifies a range of pages to parse (1-indexed, inclusive).
//
// Example:
//
//	result, err := mediciones.Open("presupuesto.pdf").PageRange(5, 10).Parse()
func (p *Parser) PageRange(start, end int) *Parser {
	newP := p.clone()
	for i := start; i <= end; i++ {
		newP.options.pages = append(newP.options.pages, i)
	}
	return newP
}

// WithColumnConfig replaces the layout detection configuration.
func (p *Parser) WithColumnConfig(config layout.ColumnConfig) *Parser {
	newP := p.clone()
	newP.options.column = config
	return newP
}

// WithClassifierConfig replaces the line classification configuration.
func (p *Parser) WithClassifierConfig(config classify.ClassifierConfig) *Parser {
	newP := p.clone()
	newP.options.classifier = config
	return newP
}

// WithBuilderConfig replaces the structure building configuration.
func (p *Parser) WithBuilderConfig(config structure.BuilderConfig) *Parser {
	newP := p.clone()
	newP.options.builder = config
	return newP
}

// WithLogger replaces the logger used for orchestration warnings.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	newP := p.clone()
	if logger != nil {
		newP.options.logger = logger
	}
	return newP
}

// ============================================================================
// Terminal Operations (execute parsing and return results)
// ============================================================================

// Parse extracts the document, assembles text lines in column reading
// order, classifies them and builds the reconciled budget tree.
// This is a terminal operation that closes the underlying reader.
//
// Returns ErrNoLines when the document yields no text at all. Any other
// problem inside the document is reported through Result.Warnings and
// Result.Findings rather than failing the parse.
//
// Example:
//
//	result, err := mediciones.Open("presupuesto.pdf").Parse()
func (p *Parser) Parse() (*Result, error) {
	if p.err != nil {
		return nil, p.err
	}

	if err := p.ensureSource(); err != nil {
		return nil, err
	}
	defer p.Close()

	pages, err := p.source.Pages()
	if err != nil {
		return nil, fmt.Errorf("extracting words: %w", err)
	}

	pages, err = p.selectPages(pages)
	if err != nil {
		return nil, err
	}

	detector := layout.NewColumnDetectorWithConfig(p.options.column)

	var (
		lines   []string
		layouts []layout.PageLayout
	)
	for i, words := range pages {
		pl := detector.Analyze(words)
		layouts = append(layouts, pl)

		if pl.Type == layout.PageEmpty {
			p.options.logger.Debug("empty page", "page", i+1)
			continue
		}
		lines = append(lines, detector.AssembleLines(words)...)
	}

	return p.parseLines(lines, layouts, p.filename)
}

// Lines extracts and returns the assembled text lines without building
// the budget tree. Useful for inspecting what the classifier will see.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	lines, err := mediciones.Open("presupuesto.pdf").Lines()
func (p *Parser) Lines() ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}

	if err := p.ensureSource(); err != nil {
		return nil, err
	}
	defer p.Close()

	pages, err := p.source.Pages()
	if err != nil {
		return nil, fmt.Errorf("extracting words: %w", err)
	}

	pages, err = p.selectPages(pages)
	if err != nil {
		return nil, err
	}

	detector := layout.NewColumnDetectorWithConfig(p.options.column)

	var lines []string
	for _, words := range pages {
		lines = append(lines, detector.AssembleLines(words)...)
	}
	return lines, nil
}

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the reader, allowing further operations.
func (p *Parser) PageCount() (int, error) {
	if p.err != nil {
		return 0, p.err
	}

	if err := p.ensureSource(); err != nil {
		return 0, err
	}

	if p.doc != nil {
		return p.doc.NumPages(), nil
	}

	pages, err := p.source.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// parseLines runs classification and structure building over assembled
// lines. layouts may be nil when parsing pre-extracted text.
func (p *Parser) parseLines(lines []string, layouts []layout.PageLayout, sourceFile string) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	classifier := classify.NewClassifierWithConfig(p.options.classifier)
	classified := classifier.ClassifyAll(lines)

	builder := structure.NewBuilderWithConfig(p.options.builder)
	build := builder.Build(classified, sourceFile)

	if build.Project.Name == "" {
		build.Project.Name = structure.DetectProjectName(lines)
	}

	for _, w := range build.Warnings {
		p.options.logger.Debug("builder warning", "kind", string(w.Kind), "code", w.Code)
	}

	return &Result{
		Project:  build.Project,
		Stats:    build.Stats,
		Warnings: build.Warnings,
		Findings: build.Findings,
		Layouts:  layouts,
		Lines:    lines,
	}, nil
}

// selectPages filters extracted pages down to the configured 1-indexed
// selection. With no selection, all pages are returned.
func (p *Parser) selectPages(pages [][]model.Word) ([][]model.Word, error) {
	if len(p.options.pages) == 0 {
		return pages, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, n := range p.options.pages {
		if n < 1 || n > len(pages) {
			return nil, fmt.Errorf("page %d out of range (1-%d)", n, len(pages))
		}
		if !seen[n] {
			seen[n] = true
			indices = append(indices, n)
		}
	}
	sort.Ints(indices)

	selected := make([][]model.Word, 0, len(indices))
	for _, n := range indices {
		selected = append(selected, pages[n-1])
	}
	return selected, nil
}
