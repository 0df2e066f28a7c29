package model

import "strings"

// Project is the root node of a reconstructed budget. It owns every
// descendant; discarding the project discards the whole tree.
type Project struct {
	// Name is the best-effort display name detected from the lines that
	// precede the first chapter. May be empty.
	Name string

	// SourceFile is the document the tree was parsed from.
	SourceFile string

	// Chapters in document order.
	Chapters []*Chapter
}

// NewProject creates an empty project.
func NewProject(name, sourceFile string) *Project {
	return &Project{
		Name:       name,
		SourceFile: sourceFile,
		Chapters:   make([]*Chapter, 0),
	}
}

// AddChapter appends a chapter, assigning its sequence order.
func (p *Project) AddChapter(c *Chapter) {
	c.Order = len(p.Chapters)
	p.Chapters = append(p.Chapters, c)
}

// Total returns the sum of chapter totals.
func (p *Project) Total() float64 {
	total := 0.0
	for _, c := range p.Chapters {
		total += c.Total
	}
	return total
}

// Chapter is a top-level budget section ("capítulo"): 1-2 digit code, no dot.
type Chapter struct {
	Code string
	Name string

	// Subchapters in document order.
	Subchapters []*Subchapter

	// Items owned directly by the chapter with no intervening subchapter.
	// Normalized away after parsing: see structure.Builder.
	Items []*LineItem

	// Total is the declared total from the document, or a computed sum.
	Total float64

	// HasDeclaredTotal records whether Total came from an explicit TOTAL
	// line rather than from summation.
	HasDeclaredTotal bool

	Order int
}

// AddSubchapter appends a child subchapter, assigning its sequence order.
func (c *Chapter) AddSubchapter(s *Subchapter) {
	s.Order = len(c.Subchapters)
	c.Subchapters = append(c.Subchapters, s)
}

// AddItem appends a directly-owned line item.
func (c *Chapter) AddItem(it *LineItem) {
	it.Order = len(c.Items)
	c.Items = append(c.Items, it)
}

// Subchapter is a nested budget section ("subcapítulo") with a dot-delimited
// code of arbitrary depth. Subchapters nest recursively: each entry in
// Subchapters is owned by this node. Parent is a non-owning back-reference
// used only for upward navigation.
type Subchapter struct {
	Code string
	Name string

	Subchapters []*Subchapter
	Apartados   []*Apartado
	Items       []*LineItem

	Total            float64
	HasDeclaredTotal bool

	// Generated marks nodes synthesized to repair gaps in the hierarchy
	// (e.g. "01.04" auto-created because "01.04.01" appeared first).
	Generated bool

	// Parent is nil for depth-1 subchapters attached directly to a chapter.
	Parent *Subchapter

	Order int
}

// Depth returns the number of dot-separated segments in the code.
// "01.04" has depth 2, "01.04.01.02" depth 4.
func (s *Subchapter) Depth() int {
	if s.Code == "" {
		return 0
	}
	return strings.Count(s.Code, ".") + 1
}

// ParentCode returns the code stripped of its last segment, or "" for
// depth-1 codes.
func (s *Subchapter) ParentCode() string {
	idx := strings.LastIndex(s.Code, ".")
	if idx < 0 {
		return ""
	}
	return s.Code[:idx]
}

// AddSubchapter appends a child subchapter, wiring the back-reference.
func (s *Subchapter) AddSubchapter(child *Subchapter) {
	child.Order = len(s.Subchapters)
	child.Parent = s
	s.Subchapters = append(s.Subchapters, child)
}

// AddApartado appends a child apartado.
func (s *Subchapter) AddApartado(a *Apartado) {
	a.Order = len(s.Apartados)
	s.Apartados = append(s.Apartados, a)
}

// AddItem appends a directly-owned line item.
func (s *Subchapter) AddItem(it *LineItem) {
	it.Order = len(s.Items)
	s.Items = append(s.Items, it)
}

// IsLeaf reports whether the node has no child sections.
func (s *Subchapter) IsLeaf() bool {
	return len(s.Subchapters) == 0 && len(s.Apartados) == 0
}

// Apartado is an explicitly keyword-marked grouping of line items beneath a
// subchapter. Apartados do not nest further.
type Apartado struct {
	Code string
	Name string

	Items []*LineItem

	Total            float64
	HasDeclaredTotal bool

	Order int
}

// AddItem appends a line item.
func (a *Apartado) AddItem(it *LineItem) {
	it.Order = len(a.Items)
	a.Items = append(a.Items, it)
}

// LineItem is a single priced budget row ("partida"): code, unit of measure,
// quantity, unit price and amount. Owned by exactly one of Apartado,
// Subchapter or Chapter.
type LineItem struct {
	Code        string
	Unit        string
	Summary     string
	Description string

	Quantity float64
	Price    float64
	Amount   float64

	Order int
}

// FlatItem is a line item annotated with its resolved section codes, the
// shape consumed by tabular and tree export collaborators. ApartadoCode and
// SubchapterCode are empty when the item hangs directly off a higher level.
type FlatItem struct {
	ChapterCode    string
	SubchapterCode string
	ApartadoCode   string
	Item           *LineItem
}

// FlattenItems walks the tree once, in document order, and returns every
// line item annotated with its chapter/subchapter/apartado codes.
func (p *Project) FlattenItems() []FlatItem {
	var out []FlatItem

	for _, ch := range p.Chapters {
		for _, it := range ch.Items {
			out = append(out, FlatItem{ChapterCode: ch.Code, Item: it})
		}
		for _, sub := range ch.Subchapters {
			out = flattenSubchapter(out, ch.Code, sub)
		}
	}

	return out
}

func flattenSubchapter(out []FlatItem, chapterCode string, s *Subchapter) []FlatItem {
	for _, it := range s.Items {
		out = append(out, FlatItem{
			ChapterCode:    chapterCode,
			SubchapterCode: s.Code,
			Item:           it,
		})
	}
	for _, a := range s.Apartados {
		for _, it := range a.Items {
			out = append(out, FlatItem{
				ChapterCode:    chapterCode,
				SubchapterCode: s.Code,
				ApartadoCode:   a.Code,
				Item:           it,
			})
		}
	}
	for _, child := range s.Subchapters {
		out = flattenSubchapter(out, chapterCode, child)
	}
	return out
}

// WalkSubchapters visits every subchapter in the project depth-first,
// children before siblings.
func (p *Project) WalkSubchapters(visit func(*Chapter, *Subchapter)) {
	for _, ch := range p.Chapters {
		for _, sub := range ch.Subchapters {
			walkSubchapter(ch, sub, visit)
		}
	}
}

func walkSubchapter(ch *Chapter, s *Subchapter, visit func(*Chapter, *Subchapter)) {
	visit(ch, s)
	for _, child := range s.Subchapters {
		walkSubchapter(ch, child, visit)
	}
}

// FindSubchapter returns the subchapter with the given code anywhere in the
// project, or nil.
func (p *Project) FindSubchapter(code string) *Subchapter {
	var found *Subchapter
	p.WalkSubchapters(func(_ *Chapter, s *Subchapter) {
		if found == nil && s.Code == code {
			found = s
		}
	})
	return found
}

// MaxDepth returns the deepest nesting level in the tree: 1 for a project
// with only chapters, 2 when chapters have subchapters, and so on.
func (p *Project) MaxDepth() int {
	if len(p.Chapters) == 0 {
		return 0
	}
	depth := 1
	for _, ch := range p.Chapters {
		for _, sub := range ch.Subchapters {
			if d := 1 + subDepth(sub); d > depth {
				depth = d
			}
		}
	}
	return depth
}

func subDepth(s *Subchapter) int {
	depth := 1
	for _, child := range s.Subchapters {
		if d := 1 + subDepth(child); d > depth {
			depth = d
		}
	}
	return depth
}
