package mediciones

import (
	"fmt"
	"strings"

	"github.com/jcanovas/mediciones/compare"
	"github.com/jcanovas/mediciones/layout"
	"github.com/jcanovas/mediciones/model"
	"github.com/jcanovas/mediciones/structure"
)

// Result holds everything produced by a parse: the reconstructed budget
// tree plus the diagnostics gathered along the way.
type Result struct {
	// Project is the reconstructed budget tree.
	Project *model.Project

	// Stats counts what the builder saw and kept.
	Stats structure.Stats

	// Warnings are non-fatal problems found while building the tree,
	// such as rejected items or amounts that fail quantity*price checks.
	Warnings []structure.Warning

	// Findings are totals that disagree with the sum of their children
	// beyond tolerance after reconciliation.
	Findings []structure.Finding

	// Layouts holds the per-page layout analysis, in page order. Nil
	// when the result came from pre-extracted lines.
	Layouts []layout.PageLayout

	// Lines are the assembled text lines the classifier consumed.
	Lines []string
}

// CompareWith cross-validates the parsed tree against an independently
// produced one, typically decoded from compare.DecodeProject.
func (r *Result) CompareWith(other *model.Project) *compare.Report {
	return compare.NewComparator().Compare(r.Project, other)
}

// TotalAmount returns the sum of all chapter totals.
func (r *Result) TotalAmount() float64 {
	return r.Project.Total()
}

// FormatWarnings renders warnings as a human-readable multi-line string.
//
// Example:
//
//	log.Println("Warnings:", mediciones.FormatWarnings(result.Warnings))
func FormatWarnings(warnings []structure.Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	var b strings.Builder
	for i, w := range warnings {
		if i > 0 {
			b.WriteString("\n")
		}
		if w.Code != "" {
			fmt.Fprintf(&b, "[%s] %s: %s", w.Kind, w.Code, w.Message)
		} else {
			fmt.Fprintf(&b, "[%s] %s", w.Kind, w.Message)
		}
	}
	return b.String()
}

// FormatFindings renders reconciliation findings as a human-readable
// multi-line string.
func FormatFindings(findings []structure.Finding) string {
	if len(findings) == 0 {
		return ""
	}

	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s: declared %.2f, computed %.2f (diff %.2f)",
			f.Code, f.Name, f.Declared, f.Computed, f.Difference)
	}
	return b.String()
}
