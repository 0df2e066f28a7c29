package structure

import (
	"fmt"
	"strings"

	"github.com/jcanovas/mediciones/classify"
	"github.com/jcanovas/mediciones/model"
	"github.com/jcanovas/mediciones/numeric"
)

// WarningKind categorizes non-fatal problems found while building.
type WarningKind string

const (
	// WarnItemRejected marks a pending item discarded at close time, for
	// a zero amount or an invalid code.
	WarnItemRejected WarningKind = "item-rejected"

	// WarnAmountMismatch marks a kept item whose quantity times price
	// does not match its amount within tolerance.
	WarnAmountMismatch WarningKind = "amount-mismatch"

	// WarnBadNumber marks a numeric token that failed to parse. The item
	// keeps waiting for numbers instead of acquiring a false zero.
	WarnBadNumber WarningKind = "bad-number"

	// WarnPlaceholderUnit marks an item recovered without a unit token.
	WarnPlaceholderUnit WarningKind = "placeholder-unit"

	// WarnUnknownTotalCode marks a total line naming a code that was
	// never registered; the builder closes the open section instead.
	WarnUnknownTotalCode WarningKind = "unknown-total-code"
)

// Warning is one non-fatal problem recorded during the build pass.
type Warning struct {
	Kind    WarningKind
	Code    string
	Message string
}

// Stats summarizes one build pass.
type Stats struct {
	LinesTotal           int
	Chapters             int
	Subchapters          int
	GeneratedSubchapters int
	Apartados            int
	ItemsKept            int
	ItemsRejected        int
}

// BuildResult is the tree plus everything the pass learned about it.
type BuildResult struct {
	Project  *model.Project
	Stats    Stats
	Warnings []Warning

	// Findings lists nodes whose declared total disagrees with the sum
	// of their children. Reported, never corrected.
	Findings []Finding
}

// BuilderConfig holds configuration for tree assembly.
type BuilderConfig struct {
	// AmountTolerance is the allowed difference between quantity*price
	// and the declared item amount. Default: 0.05.
	AmountTolerance float64

	// RelativeTotalTolerance is the relative mismatch allowed between a
	// declared section total and the sum of its children before a
	// finding is reported. Default: 0.001 (0.1%).
	RelativeTotalTolerance float64

	// MinTotalTolerance is the absolute mismatch floor in currency
	// units. Default: 0.01.
	MinTotalTolerance float64
}

// DefaultBuilderConfig returns sensible default configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		AmountTolerance:        numeric.DefaultAmountTolerance,
		RelativeTotalTolerance: 0.001,
		MinTotalTolerance:      0.01,
	}
}

// Builder assembles classified lines into a budget tree.
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultBuilderConfig()}
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(config BuilderConfig) *Builder {
	return &Builder{config: config}
}

// pendingItem is a line item that has been opened but not yet attached.
type pendingItem struct {
	item      *model.LineItem
	descLines []string
}

// buildState carries the whole cursor position through the pass. The map
// is scoped to the current chapter and cleared on each chapter boundary.
type buildState struct {
	project    *model.Project
	chapter    *model.Chapter
	lookup     map[string]*model.Subchapter
	subchapter *model.Subchapter
	apartado   *model.Apartado
	pending    *pendingItem
}

// Build runs one forward pass over the classified stream, normalizes the
// tree shape, reconciles totals and returns the result. The pass never
// aborts on a bad line; problems become warnings and findings.
func (b *Builder) Build(lines []classify.ClassifiedLine, sourceFile string) *BuildResult {
	res := &BuildResult{Project: model.NewProject("", sourceFile)}
	res.Stats.LinesTotal = len(lines)

	st := &buildState{
		project: res.Project,
		lookup:  make(map[string]*model.Subchapter),
	}

	for _, cl := range lines {
		switch cl.Tag {
		case classify.TagChapter:
			b.onChapter(st, res, cl.Section)
		case classify.TagSubchapter:
			b.onSubchapter(st, res, cl.Section)
		case classify.TagItemHeader:
			b.onItemHeader(st, res, cl.Item)
		case classify.TagItemDescription:
			b.onDescription(st, cl.Line)
		case classify.TagItemNumbers:
			b.onNumbers(st, res, cl.Numbers)
		case classify.TagTotal:
			b.onTotal(st, res, cl.Total)
		}
	}

	b.closePending(st, res)
	b.normalize(res)
	res.Findings = b.Reconcile(res.Project)

	return res
}

func (b *Builder) onChapter(st *buildState, res *BuildResult, f *classify.SectionFields) {
	b.closePending(st, res)

	ch := &model.Chapter{Code: f.Code, Name: f.Name}
	st.project.AddChapter(ch)
	res.Stats.Chapters++

	st.chapter = ch
	st.lookup = make(map[string]*model.Subchapter)
	st.subchapter = nil
	st.apartado = nil
}

func (b *Builder) onSubchapter(st *buildState, res *BuildResult, f *classify.SectionFields) {
	b.closePending(st, res)

	// The APARTADO keyword under an open subchapter creates a true
	// apartado grouping; everywhere else it degrades to a subchapter.
	if f.FromApartadoKeyword && st.subchapter != nil {
		a := &model.Apartado{Code: f.Code, Name: f.Name}
		st.subchapter.AddApartado(a)
		st.apartado = a
		res.Stats.Apartados++
		return
	}

	if st.chapter == nil {
		// Section line before any chapter. Synthesize a chapter from the
		// code's first segment so the node has somewhere to live.
		first, _, _ := strings.Cut(f.Code, ".")
		b.onChapter(st, res, &classify.SectionFields{Code: first, Name: f.Name})
	}

	sub := &model.Subchapter{Code: f.Code, Name: f.Name}

	segments := strings.Count(f.Code, ".") + 1
	if segments <= 2 {
		st.chapter.AddSubchapter(sub)
	} else {
		parent := b.ensureAncestors(st, res, f.Code)
		if parent != nil {
			parent.AddSubchapter(sub)
		} else {
			st.chapter.AddSubchapter(sub)
		}
	}

	st.lookup[f.Code] = sub
	st.subchapter = sub
	st.apartado = nil
	res.Stats.Subchapters++
}

// ensureAncestors guarantees every intermediate level of the code exists,
// synthesizing placeholders as needed, and returns the direct parent.
// For "01.04.01.02" it checks "01.04" and "01.04.01".
func (b *Builder) ensureAncestors(st *buildState, res *BuildResult, code string) *model.Subchapter {
	segments := strings.Split(code, ".")

	var parent *model.Subchapter
	for i := 2; i < len(segments); i++ {
		intermediate := strings.Join(segments[:i], ".")

		node, ok := st.lookup[intermediate]
		if !ok {
			node = &model.Subchapter{
				Code:      intermediate,
				Name:      "SUBCAPÍTULO " + intermediate,
				Generated: true,
			}
			if parent != nil {
				parent.AddSubchapter(node)
			} else {
				st.chapter.AddSubchapter(node)
			}
			st.lookup[intermediate] = node
			res.Stats.Subchapters++
			res.Stats.GeneratedSubchapters++
		}
		parent = node
	}

	return parent
}

func (b *Builder) onItemHeader(st *buildState, res *BuildResult, f *classify.ItemFields) {
	b.closePending(st, res)

	item := &model.LineItem{
		Code:    f.Code,
		Unit:    numeric.NormalizeUnit(f.Unit),
		Summary: f.Summary,
	}
	if f.PlaceholderUnit {
		item.Unit = classify.PlaceholderUnit
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnPlaceholderUnit,
			Code:    f.Code,
			Message: "no unit token found, placeholder assigned",
		})
	}

	st.pending = &pendingItem{item: item}

	if f.HasNumbers() {
		if b.assignNumbers(st.pending, res, f.QuantityText, f.PriceText, f.AmountText) {
			// Single-line item, nothing further to wait for.
			b.closePending(st, res)
		}
	}
}

func (b *Builder) onDescription(st *buildState, line string) {
	if st.pending == nil {
		return
	}
	st.pending.descLines = append(st.pending.descLines, line)
}

func (b *Builder) onNumbers(st *buildState, res *BuildResult, f *classify.NumbersFields) {
	if st.pending == nil {
		return
	}
	// Last writer wins; the item stays open until the next structural
	// boundary so further description lines can still attach.
	b.assignNumbers(st.pending, res, f.QuantityText, f.PriceText, f.AmountText)
}

// assignNumbers parses the raw triplet onto the pending item. A failed
// parse leaves the previous values in place and records a warning, so the
// item never acquires a false zero from garbled text.
func (b *Builder) assignNumbers(p *pendingItem, res *BuildResult, quantity, price, amount string) bool {
	q, errQ := numeric.ParseNumber(quantity)
	pr, errP := numeric.ParseNumber(price)
	a, errA := numeric.ParseNumber(amount)

	if errQ != nil || errP != nil || errA != nil {
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnBadNumber,
			Code:    p.item.Code,
			Message: fmt.Sprintf("unparsable numeric tail %q %q %q", quantity, price, amount),
		})
		return false
	}

	p.item.Quantity = q
	p.item.Price = pr
	p.item.Amount = a
	return true
}

func (b *Builder) onTotal(st *buildState, res *BuildResult, f *classify.TotalFields) {
	b.closePending(st, res)

	amount, amountErr := numeric.ParseNumber(f.AmountText)
	hasAmount := amountErr == nil

	code := f.Code

	// A bare TOTAL resolves against whatever section is open.
	if code == "" {
		if st.apartado != nil {
			if hasAmount {
				st.apartado.Total = amount
				st.apartado.HasDeclaredTotal = true
			}
			st.apartado = nil
			return
		}
		if st.subchapter != nil {
			if hasAmount {
				st.subchapter.Total = amount
				st.subchapter.HasDeclaredTotal = true
			}
			b.popSubchapter(st)
			return
		}
		if st.chapter != nil && hasAmount {
			st.chapter.Total = amount
			st.chapter.HasDeclaredTotal = true
		}
		return
	}

	if st.apartado != nil && st.apartado.Code == code {
		if hasAmount {
			st.apartado.Total = amount
			st.apartado.HasDeclaredTotal = true
		}
		st.apartado = nil
		return
	}

	if node, ok := st.lookup[code]; ok {
		if hasAmount {
			node.Total = amount
			node.HasDeclaredTotal = true
		}
		// The TOTAL closes the section it names: pop the cursor to the
		// named node's parent.
		st.subchapter = node
		b.popSubchapter(st)
		st.apartado = nil
		return
	}

	if st.chapter != nil && (st.chapter.Code == code || strings.Contains(f.LevelHint, "CAP")) {
		if hasAmount && st.chapter.Code == code {
			st.chapter.Total = amount
			st.chapter.HasDeclaredTotal = true
		}
		st.subchapter = nil
		st.apartado = nil
		return
	}

	// Unknown code: close whatever is open rather than guessing.
	res.Warnings = append(res.Warnings, Warning{
		Kind:    WarnUnknownTotalCode,
		Code:    code,
		Message: "total names an unregistered section, closing the open one",
	})
	if st.apartado != nil {
		st.apartado = nil
		return
	}
	if st.subchapter != nil {
		b.popSubchapter(st)
	}
}

// popSubchapter moves the cursor from the current subchapter up to its
// parent, or clears it at depth 2 ("01.04" has no subchapter parent).
func (b *Builder) popSubchapter(st *buildState) {
	if st.subchapter == nil {
		return
	}
	if strings.Count(st.subchapter.Code, ".") >= 2 {
		if parent, ok := st.lookup[st.subchapter.ParentCode()]; ok {
			st.subchapter = parent
			return
		}
	}
	st.subchapter = nil
}

// closePending validates and attaches the pending item to the innermost
// open owner. Zero-amount and invalid-code items are extraction noise:
// counted and dropped, never attached.
func (b *Builder) closePending(st *buildState, res *BuildResult) {
	p := st.pending
	if p == nil {
		return
	}
	st.pending = nil

	if p.item.Amount == 0 {
		res.Stats.ItemsRejected++
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnItemRejected,
			Code:    p.item.Code,
			Message: "zero amount",
		})
		return
	}

	if !classify.ValidCode(p.item.Code) {
		res.Stats.ItemsRejected++
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnItemRejected,
			Code:    p.item.Code,
			Message: "invalid code",
		})
		return
	}

	if len(p.descLines) > 0 {
		p.item.Description = numeric.RebuildDescription(p.descLines)
	}

	if !numeric.ValidateAmount(p.item.Quantity, p.item.Price, p.item.Amount, b.config.AmountTolerance) {
		res.Warnings = append(res.Warnings, Warning{
			Kind: WarnAmountMismatch,
			Code: p.item.Code,
			Message: fmt.Sprintf("%s × %s ≠ %s",
				numeric.FormatNumber(p.item.Quantity),
				numeric.FormatNumber(p.item.Price),
				numeric.FormatNumber(p.item.Amount)),
		})
	}

	switch {
	case st.apartado != nil:
		st.apartado.AddItem(p.item)
	case st.subchapter != nil:
		st.subchapter.AddItem(p.item)
	case st.chapter != nil:
		st.chapter.AddItem(p.item)
	default:
		res.Stats.ItemsRejected++
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnItemRejected,
			Code:    p.item.Code,
			Message: "no open section to own the item",
		})
		return
	}

	res.Stats.ItemsKept++
}

// normalize gives every chapter that ended up owning items directly, with
// no subchapters at all, a single synthesized subchapter carrying the
// chapter's own code and name. Line items conventionally live under a
// subchapter; this keeps the tree shape uniform without losing data.
func (b *Builder) normalize(res *BuildResult) {
	for _, ch := range res.Project.Chapters {
		if len(ch.Items) == 0 || len(ch.Subchapters) > 0 {
			continue
		}

		sub := &model.Subchapter{
			Code:      ch.Code,
			Name:      ch.Name,
			Generated: true,
		}
		for _, it := range ch.Items {
			sub.AddItem(it)
		}
		ch.Items = nil
		ch.AddSubchapter(sub)
		res.Stats.Subchapters++
		res.Stats.GeneratedSubchapters++
	}
}
