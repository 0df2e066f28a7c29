// Package mediciones reconstructs the hierarchical budget structure of
// Spanish construction documents (mediciones y presupuestos) from PDF
// files: chapters, subchapters, apartados and priced line items, with
// totals reconciled bottom-up against the amounts declared in the
// document.
//
// Basic usage:
//
//	result, err := mediciones.Open("presupuesto.pdf").Parse()
//	if err != nil {
//	    // handle error
//	}
//	for _, ch := range result.Project.Chapters {
//	    fmt.Printf("%s %s: %.2f\n", ch.Code, ch.Name, ch.Total)
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", mediciones.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	result, err := mediciones.Open("presupuesto.pdf").
//	    Pages(1, 2, 3).
//	    Parse()
//
// For pre-extracted text, or to test without PDFs, lines can be parsed
// directly:
//
//	result, err := mediciones.ParseLines(lines, "presupuesto.txt")
//
// The lower-level packages (pdftext, layout, classify, structure,
// compare) are also available for advanced use cases.
package mediciones

import (
	"github.com/jcanovas/mediciones/model"
)

// WordSource yields position-aware words page by page. pdftext.Document
// implements it for digital PDFs; the ocr package client can feed it
// for scanned pages.
type WordSource interface {
	Pages() ([][]model.Word, error)
}

// Open opens a PDF file and returns a Parser for fluent configuration.
// The returned Parser must be closed when done, either explicitly via
// Close() or implicitly when calling a terminal operation like Parse().
//
// Example:
//
//	result, err := mediciones.Open("presupuesto.pdf").Parse()
func Open(filename string) *Parser {
	return &Parser{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource creates a Parser from an already-opened word source. This
// is useful when the words come from somewhere other than a digital PDF,
// such as the OCR client, or when you need more control over the source
// lifecycle. The caller remains responsible for closing the source.
//
// Example:
//
//	doc, err := pdftext.Open("presupuesto.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//	result, err := mediciones.FromSource(doc).Parse()
func FromSource(src WordSource) *Parser {
	return &Parser{
		source:  src,
		options: defaultOptions(),
	}
}

// ParseLines parses pre-assembled text lines into a budget tree. It
// skips extraction and layout analysis entirely, which makes it the
// entry point for text dumps and for deterministic tests.
//
// Example:
//
//	result, err := mediciones.ParseLines(lines, "presupuesto.txt")
func ParseLines(lines []string, sourceFile string) (*Result, error) {
	p := &Parser{options: defaultOptions()}
	return p.parseLines(lines, nil, sourceFile)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := mediciones.Must(mediciones.Open("presupuesto.pdf").Parse())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
