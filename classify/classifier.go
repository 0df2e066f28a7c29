package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jcanovas/mediciones/numeric"
)

// Patterns of the rule cascade, in evaluation order. The pagination rule
// covers every footer shape print engines emit: bare digit runs, "- 23 -",
// "Página 23", "Pág. 23", "Page 23", "P. 23", "23 / 89" and "[23]".
// Codes may carry a letter prefix ("C01") in addition to the plain numeric
// form ("01"). Implicit section lines tolerate a code glued directly to an
// uppercase name ("01.04.06REPOSICIÓN"), which layout extraction produces
// when the gap between columns collapses; their name part must contain at
// least one letter, so a footer fragment can never become a section.
var (
	pagination = regexp.MustCompile(`(?i)^(?:\d+(?:\s+\d+)*|-\s*\d+\s*-|p[áa]gina\s+\d+|p[áa]g\.?\s+\d+|page\s+\d+|p\.\s*\d+|\d+\s*/\s*\d+|\[\s*\d+\s*\])\s*$`)

	chapterKeyword    = regexp.MustCompile(`(?i)^CAP[IÍ]TULO\s+([A-Z]?\d+)\s+(.+)$`)
	subchapterKeyword = regexp.MustCompile(`(?i)^SUBCAP[IÍ]TULO\s+([A-Z]?\d+(?:\.\d+)+)\s+(.+)$`)
	apartadoKeyword   = regexp.MustCompile(`(?i)^APARTADO\s+([A-Z]?\d+(?:\.\d+)+)\s+(.+)$`)

	sectionName        = `[A-ZÁÉÍÓÚÑ0-9\s./()\-]`
	sectionLetter      = `[A-ZÁÉÍÓÚÑ]`
	implicitChapter    = regexp.MustCompile(`^(\d{1,2})(\s+[0-9\s./()\-]*` + sectionLetter + sectionName + `*|` + sectionLetter + sectionName + `*)$`)
	implicitSubchapter = regexp.MustCompile(`^(\d{1,2}(?:\.\d{1,2})+)(\s+[0-9\s./()\-]*` + sectionLetter + sectionName + `*|` + sectionLetter + sectionName + `*)$`)

	totalExplicit = regexp.MustCompile(`(?i)^TOTAL\s+(SUBCAP[IÍ]TULO|CAP[IÍ]TULO|APARTADO)\s+([A-Z]?\d+(?:\.\d+)*)`)
	totalDotted   = regexp.MustCompile(`(?i)^TOTAL\s+([A-Z]?\d{1,2}(?:\.\d{1,2})*)[\s.]+([\d.,]+)\s*$`)
	totalBare     = regexp.MustCompile(`(?i)^TOTAL\b[\s.:]*([\d.,]+)\s*$`)

	// numbersTail anchors the quantity/price/amount triplet to the end of
	// the line. Both thousands styles occur: "1.234,56" and "10653,50".
	numbersTail = regexp.MustCompile(`(\d+(?:\.\d{3})*(?:,\d{1,4})?)\s+(\d+(?:\.\d{3})*(?:,\d{1,4})?)\s+(\d+(?:\.\d{3})*(?:,\d{1,4})?)\s*$`)

	// unitAlt lists every unit-of-measure spelling seen in real budgets,
	// including separator-noise variants of "partida alzada" (P.A., P:A:).
	unitAlt    = `m[23²³]?(?:/[a-z]+)?|ml|m\.|ud(?:/[a-z]+)?|uf|u|p[.:]+a[.:]*|pa|kg|h|l|t|d|sm|mes|d[ií]a|año|sem`
	itemHeader = regexp.MustCompile(`^(\S+)\s+((?i:` + unitAlt + `))\s+(.+)$`)

	// noUnitHeader recovers headers whose unit token was dropped or glued
	// away by the extractor: code, then a summary starting uppercase.
	noUnitHeader = regexp.MustCompile(`^([A-Z0-9]\S*)\s+([A-ZÁÉÍÓÚÑ].*)$`)

	// amountShaped rejects "codes" that are really Spanish amounts, such
	// as the 29.672,05 of a stray total row.
	amountShaped = regexp.MustCompile(`^\d+(?:\.\d{3})*,\d{2}$`)

	itemCodePrefix = regexp.MustCompile(`^[A-Z0-9]\S{4,}\s+`)
)

// PlaceholderUnit is assigned to headers recovered without a unit token.
const PlaceholderUnit = "X"

// reservedCodes are table and structure keywords that the permissive unit
// pattern occasionally mistakes for line-item codes.
var reservedCodes = []string{
	"ORDEN", "CODIGO", "RESUMEN", "CANTIDAD", "PRECIO", "IMPORTE",
	"UNIDAD", "UD", "TOTAL", "SUBTOTAL", "CAPITULO", "SUBCAPITULO",
	"APARTADO",
}

var tableHeaderTokens = []string{"CODIGO", "RESUMEN", "CANTIDAD", "PRECIO", "IMPORTE"}

// ValidCode reports whether a candidate line-item code passes the validity
// guard: at least 3 characters, contains a digit, ends in a digit, and is
// not a reserved table keyword.
func ValidCode(code string) bool {
	if len(code) < 3 {
		return false
	}

	hasDigit := false
	for _, r := range code {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	last := rune(code[len(code)-1])
	if !unicode.IsDigit(last) {
		return false
	}

	folded := strings.ToUpper(foldAccents(code))
	for _, reserved := range reservedCodes {
		if folded == reserved {
			return false
		}
	}
	return true
}

// ClassifierConfig holds configuration for line classification.
type ClassifierConfig struct {
	// MinTableHeaderTokens is how many of the CÓDIGO/RESUMEN/CANTIDAD/
	// PRECIO/IMPORTE tokens a line must contain to count as table-header
	// noise. Default: 3.
	MinTableHeaderTokens int

	// MaxContinuationLength bounds the length of an uppercase line merged
	// back into the preceding item summary. Default: 150.
	MaxContinuationLength int
}

// DefaultClassifierConfig returns sensible default configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinTableHeaderTokens:  3,
		MaxContinuationLength: 150,
	}
}

// Classifier assigns semantic tags to budget text lines.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultClassifierConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify tags a single line and returns the updated context. The rules
// run in fixed order, first match wins; later rules assume earlier ones
// failed.
func (c *Classifier) Classify(line string, ctx Context) (ClassifiedLine, Context) {
	cl := ClassifiedLine{Line: strings.TrimSpace(line), Tag: TagUnclassified}
	line = cl.Line

	if line == "" || pagination.MatchString(line) {
		return cl, ctx
	}

	if m := chapterKeyword.FindStringSubmatch(line); m != nil {
		cl.Tag = TagChapter
		cl.Section = &SectionFields{Code: m[1], Name: strings.TrimSpace(m[2])}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if m := subchapterKeyword.FindStringSubmatch(line); m != nil {
		cl.Tag = TagSubchapter
		cl.Section = &SectionFields{Code: m[1], Name: strings.TrimSpace(m[2])}
		ctx.ItemOpen = false
		return cl, ctx
	}

	// APARTADO maps to the same tag: nesting is structural, not lexical.
	if m := apartadoKeyword.FindStringSubmatch(line); m != nil {
		cl.Tag = TagSubchapter
		cl.Section = &SectionFields{Code: m[1], Name: strings.TrimSpace(m[2]), FromApartadoKeyword: true}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if m := implicitChapter.FindStringSubmatch(line); m != nil {
		cl.Tag = TagChapter
		cl.Section = &SectionFields{Code: m[1], Name: strings.TrimSpace(m[2])}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if m := implicitSubchapter.FindStringSubmatch(line); m != nil {
		cl.Tag = TagSubchapter
		cl.Section = &SectionFields{Code: m[1], Name: strings.TrimSpace(m[2])}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if loc := totalExplicit.FindStringSubmatchIndex(line); loc != nil {
		cl.Tag = TagTotal
		cl.Total = &TotalFields{
			LevelHint:  strings.ToUpper(line[loc[2]:loc[3]]),
			Code:       line[loc[4]:loc[5]],
			AmountText: trailingNumberToken(line[loc[1]:]),
		}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if m := totalDotted.FindStringSubmatch(line); m != nil {
		cl.Tag = TagTotal
		cl.Total = &TotalFields{Code: m[1], AmountText: m[2]}
		ctx.ItemOpen = false
		return cl, ctx
	}

	if m := totalBare.FindStringSubmatch(line); m != nil {
		cl.Tag = TagTotal
		cl.Total = &TotalFields{AmountText: m[1]}
		ctx.ItemOpen = false
		return cl, ctx
	}

	// Deduction rows adjust measurements, they are not line items; letting
	// them through would corrupt totals.
	upper := strings.ToUpper(foldAccents(line))
	if strings.HasPrefix(upper, "A DEDUCIR") || strings.HasPrefix(upper, "A DESCONTAR") {
		return cl, ctx
	}

	// Numbers first, header second. The prefix left after stripping the
	// trailing triplet is what gets matched against the header patterns,
	// so numbers embedded in the summary cannot displace the real tail.
	if loc := numbersTail.FindStringSubmatchIndex(line); loc != nil {
		numbers := NumbersFields{
			QuantityText: line[loc[2]:loc[3]],
			PriceText:    line[loc[4]:loc[5]],
			AmountText:   line[loc[6]:loc[7]],
		}
		prefix := strings.TrimSpace(line[:loc[0]])

		if fields, ok := c.matchHeader(prefix); ok {
			fields.QuantityText = numbers.QuantityText
			fields.PriceText = numbers.PriceText
			fields.AmountText = numbers.AmountText
			cl.Tag = TagItemHeader
			cl.Item = fields
			ctx.ItemOpen = true
			return cl, ctx
		}

		cl.Tag = TagItemNumbers
		cl.Numbers = &numbers
		ctx.ItemOpen = false
		return cl, ctx
	}

	if fields, ok := c.matchHeader(line); ok {
		cl.Tag = TagItemHeader
		cl.Item = fields
		ctx.ItemOpen = true
		return cl, ctx
	}

	if c.isTableHeader(line) {
		cl.Tag = TagTableHeader
		return cl, ctx
	}

	if ctx.ItemOpen {
		cl.Tag = TagItemDescription
		return cl, ctx
	}

	return cl, ctx
}

// matchHeader matches a numberless prefix against the code+unit+summary
// pattern, falling back to the unitless form when no unit token is found.
// The code validity guard applies on both paths.
func (c *Classifier) matchHeader(prefix string) (*ItemFields, bool) {
	if prefix == "" {
		return nil, false
	}

	if m := itemHeader.FindStringSubmatch(prefix); m != nil {
		if ValidCode(m[1]) {
			return &ItemFields{
				Code:    m[1],
				Unit:    m[2],
				Summary: strings.TrimSpace(m[3]),
			}, true
		}
	}

	if m := noUnitHeader.FindStringSubmatch(prefix); m != nil {
		code := m[1]
		if !amountShaped.MatchString(code) && !strings.HasSuffix(code, ".") && ValidCode(code) {
			return &ItemFields{
				Code:            code,
				Unit:            PlaceholderUnit,
				Summary:         strings.TrimSpace(m[2]),
				PlaceholderUnit: true,
			}, true
		}
	}

	return nil, false
}

func (c *Classifier) isTableHeader(line string) bool {
	upper := strings.ToUpper(foldAccents(line))
	hits := 0
	for _, token := range tableHeaderTokens {
		if strings.Contains(upper, token) {
			hits++
		}
	}
	return hits >= c.config.MinTableHeaderTokens
}

// ClassifyAll tags a whole document in order, threading the context across
// lines, then merges uppercase summary-continuation lines back into the
// preceding item header.
func (c *Classifier) ClassifyAll(lines []string) []ClassifiedLine {
	out := make([]ClassifiedLine, 0, len(lines))
	ctx := Context{}

	for i, line := range lines {
		var cl ClassifiedLine
		cl, ctx = c.Classify(line, ctx)
		cl.Index = i
		out = append(out, cl)
	}

	return c.mergeContinuations(out)
}

// mergeContinuations joins a summary that wrapped onto the next physical
// line. The continuation must be fully uppercase, short, carry no trailing
// numbers, not start with a code and not be table noise.
func (c *Classifier) mergeContinuations(lines []ClassifiedLine) []ClassifiedLine {
	out := make([]ClassifiedLine, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		cur := lines[i]

		if cur.Tag == TagItemHeader && i+1 < len(lines) {
			next := lines[i+1]
			if c.isSummaryContinuation(next) {
				cur.Item.Summary = cur.Item.Summary + " " + next.Line
				cur.Line = cur.Line + " " + next.Line
				i++
			}
		}

		out = append(out, cur)
	}

	return out
}

func (c *Classifier) isSummaryContinuation(next ClassifiedLine) bool {
	if next.Tag != TagUnclassified && next.Tag != TagItemDescription {
		return false
	}
	line := next.Line
	if line == "" || len(line) >= c.config.MaxContinuationLength {
		return false
	}
	if pagination.MatchString(line) || itemCodePrefix.MatchString(line) || numbersTail.MatchString(line) || c.isTableHeader(line) {
		return false
	}

	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 0
}

// trailingNumberToken returns the last Spanish numeric token of the text,
// or "" when there is none.
func trailingNumberToken(text string) string {
	tokens := numeric.NumberTokens(text)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
