package structure

import (
	"regexp"
	"strings"

	"github.com/jcanovas/mediciones/classify"
)

var (
	sectionStart = regexp.MustCompile(`^\d{1,2}(\.\d{1,2})?\s+`)
	digitsOnly   = regexp.MustCompile(`^[\d.\s]+$`)
)

// nameScanLimit bounds how far into the document the title search looks.
// Real cover pages put the project title within the first few lines.
const nameScanLimit = 20

// DetectProjectName scans the lines that precede the first chapter for a
// best-effort project title: the first long descriptive line that is not
// table noise, a section heading or a line item. Returns "" when nothing
// qualifies; a missing name is not an error.
func DetectProjectName(lines []string) string {
	c := classify.NewClassifier()

	limit := nameScanLimit
	if len(lines) < limit {
		limit = len(lines)
	}

	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])

		// A chapter or section code means the budget body started.
		if strings.HasPrefix(strings.ToUpper(line), "CAPÍTULO") ||
			strings.HasPrefix(strings.ToUpper(line), "CAPITULO") ||
			sectionStart.MatchString(line) {
			return ""
		}

		if line == "" || len(line) < 15 {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.Contains(upper, "CÓDIGO") || strings.Contains(upper, "CODIGO") ||
			strings.Contains(upper, "RESUMEN") || strings.Contains(upper, "CANTIDAD") ||
			strings.Contains(upper, "PRECIO") || strings.Contains(upper, "IMPORTE") {
			continue
		}
		switch upper {
		case "PRESUPUESTO", "MEDICIONES Y PRESUPUESTO", "MEDICIONES":
			continue
		}

		if cl, _ := c.Classify(line, classify.Context{}); cl.Tag == classify.TagItemHeader {
			continue
		}

		if len(line) > 30 && !digitsOnly.MatchString(line) {
			return line
		}
	}

	return ""
}
