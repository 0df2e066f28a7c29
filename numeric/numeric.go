// Package numeric parses and normalizes Spanish-locale numbers and
// measurement units as they appear in construction budget documents:
// thousands separated by '.', decimals by ',', quantities such as
// "1.234,56", and unit tokens such as "m2", "Ml" or "P.A.".
package numeric

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a token cannot be parsed as a Spanish
// formatted number. Callers must distinguish this from a parsed zero: an
// item whose numbers failed to parse stays pending instead of acquiring a
// false 0.
var ErrNotANumber = errors.New("numeric: not a number")

// numberPattern matches Spanish formatted numeric tokens. Both styles occur
// in real documents: with thousands separators ("1.234,56") and without
// ("10653,50"), plus bare integers.
var numberPattern = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{1,4}|\d+,\d{1,4}|\d+`)

// ParseNumber converts a Spanish formatted number string to a float.
//
//	"1.605,90" -> 1605.90
//	"630,00"   -> 630.0
//
// Empty or unparsable input returns ErrNotANumber.
func ParseNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrNotANumber
	}

	// Thousands separator out, decimal comma to point.
	cleaned := strings.ReplaceAll(text, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, text)
	}
	return v, nil
}

// FormatNumber renders a value back into Spanish format with two decimals
// and '.' thousands separators: 1605.9 -> "1.605,90".
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, decPart, _ := strings.Cut(s, ".")

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	sb.WriteByte(',')
	sb.WriteString(decPart)

	return sb.String()
}

// NumberTokens returns every Spanish formatted numeric token in the line,
// unparsed, in order of appearance.
func NumberTokens(line string) []string {
	return numberPattern.FindAllString(line, -1)
}

// ExtractNumbers returns every Spanish formatted numeric token in the line,
// parsed, in order of appearance.
func ExtractNumbers(line string) []float64 {
	matches := NumberTokens(line)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := ParseNumber(m); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// LastN returns the last n numeric tokens of the line. Quantity, price and
// amount are always the trailing tokens even when the free-text description
// itself contains numbers, so callers take the tail rather than the head.
// Returns nil when the line holds fewer than n numbers.
func LastN(line string, n int) []float64 {
	nums := ExtractNumbers(line)
	if len(nums) < n {
		return nil
	}
	return nums[len(nums)-n:]
}

// Triplet is the quantity/price/amount tail of a line item row.
type Triplet struct {
	Quantity float64
	Price    float64
	Amount   float64
}

// LastTriplet extracts the trailing quantity/price/amount from a line.
// The boolean is false when the line holds fewer than three numbers.
func LastTriplet(line string) (Triplet, bool) {
	tail := LastN(line, 3)
	if tail == nil {
		return Triplet{}, false
	}
	return Triplet{Quantity: tail[0], Price: tail[1], Amount: tail[2]}, true
}

// paVariant matches the "partida alzada" unit written with separator noise:
// P.A., P:A:, p.a. and similar.
var paVariant = regexp.MustCompile(`^[Pp][.:]+[Aa][.:]*$`)

// unitTable maps lowercase unit variants to their canonical form.
var unitTable = map[string]string{
	"ud": "Ud",
	"u":  "Ud",
	"ml": "m",
	"m.": "m",
	"m2": "m²",
	"m3": "m³",
	"pa": "PA",
}

// NormalizeUnit maps a unit-of-measure token to its canonical form. Unknown
// tokens are title-cased and passed through unchanged, never rejected.
func NormalizeUnit(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	if paVariant.MatchString(token) {
		return "PA"
	}

	if canonical, ok := unitTable[strings.ToLower(token)]; ok {
		return canonical
	}

	return capitalize(token)
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// DefaultAmountTolerance is the allowed absolute difference between
// quantity*price and the declared amount.
const DefaultAmountTolerance = 0.05

// ValidateAmount reports whether quantity*price matches the amount within
// the tolerance, rounding the product to cents first.
func ValidateAmount(quantity, price, amount, tolerance float64) bool {
	computed := math.Round(quantity*price*100) / 100
	return math.Abs(computed-amount) <= tolerance
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// RebuildDescription joins continuation lines into one description: single
// spaces between lines, internal whitespace runs collapsed, and wrapped
// words rejoined. Only a hyphen glued to the last word of a line is a wrap
// artifact; a dash anywhere else is real text and stays.
func RebuildDescription(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "-") && !strings.HasSuffix(line, " -") {
			sb.WriteString(line[:len(line)-1])
			continue
		}
		sb.WriteString(line)
		sb.WriteByte(' ')
	}
	joined := whitespaceRun.ReplaceAllString(sb.String(), " ")
	return strings.TrimSpace(joined)
}
