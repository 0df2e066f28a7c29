package structure

import (
	"math"

	"github.com/jcanovas/mediciones/model"
)

// Finding is one node whose declared total disagrees with the sum of its
// children beyond tolerance.
type Finding struct {
	Code       string
	Name       string
	Declared   float64
	Computed   float64
	Difference float64
}

// Reconcile walks the tree bottom-up, children before parents, filling in
// missing totals by summation. Explicitly declared totals always win over
// computed ones. Running it again is a no-op: computed totals are a pure
// function of the leaves and the declared values.
//
// The returned findings list every node with both a declared total and
// children whose sum disagrees with it. Leaf nodes with no children are
// not compared here; flagging empty leaves is the comparator's job.
func (b *Builder) Reconcile(p *model.Project) []Finding {
	var findings []Finding

	for _, ch := range p.Chapters {
		computed := 0.0
		for _, it := range ch.Items {
			computed += it.Amount
		}
		for _, sub := range ch.Subchapters {
			findings = b.reconcileSubchapter(sub, findings)
			computed += sub.Total
		}

		findings = b.check(ch.Code, ch.Name, ch.HasDeclaredTotal, ch.Total, computed,
			len(ch.Items)+len(ch.Subchapters) > 0, findings)
		if !ch.HasDeclaredTotal {
			ch.Total = computed
		}
	}

	return findings
}

func (b *Builder) reconcileSubchapter(s *model.Subchapter, findings []Finding) []Finding {
	computed := 0.0
	for _, it := range s.Items {
		computed += it.Amount
	}
	for _, a := range s.Apartados {
		findings = b.reconcileApartado(a, findings)
		computed += a.Total
	}
	for _, child := range s.Subchapters {
		findings = b.reconcileSubchapter(child, findings)
		computed += child.Total
	}

	hasChildren := len(s.Items)+len(s.Apartados)+len(s.Subchapters) > 0
	findings = b.check(s.Code, s.Name, s.HasDeclaredTotal, s.Total, computed, hasChildren, findings)
	if !s.HasDeclaredTotal {
		s.Total = computed
	}

	return findings
}

func (b *Builder) reconcileApartado(a *model.Apartado, findings []Finding) []Finding {
	computed := 0.0
	for _, it := range a.Items {
		computed += it.Amount
	}

	findings = b.check(a.Code, a.Name, a.HasDeclaredTotal, a.Total, computed, len(a.Items) > 0, findings)
	if !a.HasDeclaredTotal {
		a.Total = computed
	}
	return findings
}

// check reports a finding when a declared total and a non-trivial computed
// sum disagree beyond the relative tolerance, floored at the absolute
// minimum so tiny sections do not drown the report in rounding noise.
func (b *Builder) check(code, name string, declared bool, total, computed float64, hasChildren bool, findings []Finding) []Finding {
	if !declared || !hasChildren {
		return findings
	}

	diff := math.Abs(total - computed)
	limit := math.Max(b.config.RelativeTotalTolerance*math.Abs(total), b.config.MinTotalTolerance)
	if diff <= limit {
		return findings
	}

	return append(findings, Finding{
		Code:       code,
		Name:       name,
		Declared:   total,
		Computed:   computed,
		Difference: diff,
	})
}
