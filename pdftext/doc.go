// Package pdftext extracts position-aware words from digital PDF pages.
//
// It wraps github.com/ledongthuc/pdf, which yields text as positioned
// fragments (often single characters). This package reassembles those
// fragments into words with bounding boxes in top-down page coordinates,
// the shape the layout package consumes.
//
// Basic usage:
//
//	doc, err := pdftext.Open("presupuesto.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	for n := 1; n <= doc.NumPages(); n++ {
//	    words, err := doc.PageWords(n)
//	    if err != nil {
//	        continue
//	    }
//	    // feed words to layout.AssembleLines
//	}
//
// Pages that cannot be decoded are skipped with a warning rather than
// aborting the document. Scanned pages produce no words here; those go
// through the ocr package instead.
package pdftext
