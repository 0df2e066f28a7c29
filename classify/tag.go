package classify

// Tag is the semantic role assigned to one text line.
type Tag int

const (
	// TagUnclassified marks lines with no recognized role: pagination
	// noise, deduction lines, stray text. Discarded by the builder.
	TagUnclassified Tag = iota

	// TagChapter is a top-level section line, explicit ("CAPÍTULO 01 ...")
	// or implicit ("01 FASE 2").
	TagChapter

	// TagSubchapter is a nested section line with a dotted code. Both the
	// SUBCAPÍTULO and APARTADO keywords map here: nesting depth is decided
	// structurally from the code, never from the keyword.
	TagSubchapter

	// TagItemHeader opens a line item: code, unit and summary, optionally
	// already carrying the quantity/price/amount tail.
	TagItemHeader

	// TagItemDescription is free text accumulating into the open item's
	// long description.
	TagItemDescription

	// TagItemNumbers is a continuation line carrying only the trailing
	// quantity/price/amount triplet for the open item.
	TagItemNumbers

	// TagTotal is a section total marker in any of its three shapes:
	// keyword+code, code+filler-dots+amount, or bare TOTAL+amount.
	TagTotal

	// TagTableHeader is column-header noise (CÓDIGO RESUMEN CANTIDAD ...).
	TagTableHeader
)

var tagNames = map[Tag]string{
	TagUnclassified:    "unclassified",
	TagChapter:         "chapter",
	TagSubchapter:      "subchapter",
	TagItemHeader:      "item-header",
	TagItemDescription: "item-description",
	TagItemNumbers:     "item-numbers",
	TagTotal:           "total",
	TagTableHeader:     "table-header",
}

// String returns the tag name.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unclassified"
}

// SectionFields are the extracted fields of a chapter or subchapter line.
type SectionFields struct {
	Code string
	Name string

	// FromApartadoKeyword records that the line used the literal APARTADO
	// keyword. The tag is still TagSubchapter; the builder uses this flag
	// to attach an apartado under the open subchapter instead.
	FromApartadoKeyword bool
}

// ItemFields are the extracted fields of a line-item header. The numeric
// fields stay as raw strings: parsing happens downstream so that a parse
// failure can keep the item pending instead of silently becoming zero.
type ItemFields struct {
	Code    string
	Unit    string
	Summary string

	QuantityText string
	PriceText    string
	AmountText   string

	// PlaceholderUnit records that no unit token was found and "X" was
	// assigned, usually because layout glued or dropped the unit.
	PlaceholderUnit bool
}

// HasNumbers reports whether the header already carried its numeric tail.
func (f ItemFields) HasNumbers() bool {
	return f.QuantityText != "" && f.PriceText != "" && f.AmountText != ""
}

// NumbersFields are the raw quantity/price/amount of a numbers-only line.
type NumbersFields struct {
	QuantityText string
	PriceText    string
	AmountText   string
}

// TotalFields are the extracted fields of a total marker.
type TotalFields struct {
	// LevelHint is the literal keyword when present (SUBCAPÍTULO,
	// CAPÍTULO or APARTADO), empty otherwise.
	LevelHint string

	// Code names the section being closed. Empty for a bare TOTAL line,
	// which the builder resolves against the section currently open.
	Code string

	// AmountText is the raw declared amount, empty when the line carried
	// no amount.
	AmountText string
}

// ClassifiedLine is one input line plus its tag and extracted fields.
// Exactly the field struct matching the tag is non-nil; description lines
// carry their text in Line itself.
type ClassifiedLine struct {
	Line  string
	Index int
	Tag   Tag

	Section *SectionFields
	Item    *ItemFields
	Numbers *NumbersFields
	Total   *TotalFields
}

// Context is the cross-line classification state, deliberately minimal.
// Callers thread it through sequential Classify calls.
type Context struct {
	// ItemOpen is true while a line item header has been seen and not yet
	// closed by a numbers line or a structural boundary.
	ItemOpen bool
}
