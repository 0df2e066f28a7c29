// integration.go provides document-level layout analysis without running
// the full parsing pipeline.
package mediciones

import (
	"fmt"

	"github.com/jcanovas/mediciones/layout"
	"github.com/jcanovas/mediciones/pdftext"
)

// AnalyzeLayout runs column-layout analysis on every page of a PDF and
// returns the per-page results in page order. Useful for checking how a
// document will flow before parsing it, for example to spot landscape
// or multi-column listing pages.
//
// Example:
//
//	layouts, err := mediciones.AnalyzeLayout("presupuesto.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, pl := range layouts {
//	    fmt.Printf("Page %d: %s (%d columns)\n", i+1, pl.Type, pl.ColumnCount())
//	}
func AnalyzeLayout(path string) ([]layout.PageLayout, error) {
	return AnalyzeLayoutWithConfig(path, layout.DefaultColumnConfig())
}

// AnalyzeLayoutWithConfig runs layout analysis with custom configuration.
func AnalyzeLayoutWithConfig(path string, config layout.ColumnConfig) ([]layout.PageLayout, error) {
	doc, err := pdftext.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return AnalyzeLayoutSource(doc, config)
}

// AnalyzeLayoutSource runs layout analysis over an already-open word
// source. The caller remains responsible for closing the source.
func AnalyzeLayoutSource(src WordSource, config layout.ColumnConfig) ([]layout.PageLayout, error) {
	pages, err := src.Pages()
	if err != nil {
		return nil, fmt.Errorf("extracting words: %w", err)
	}

	detector := layout.NewColumnDetectorWithConfig(config)

	layouts := make([]layout.PageLayout, 0, len(pages))
	for _, words := range pages {
		layouts = append(layouts, detector.Analyze(words))
	}
	return layouts, nil
}
