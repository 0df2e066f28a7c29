package compare

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/jcanovas/mediciones/model"
)

// ErrEmptyTree is returned when the decoded document holds no chapters.
var ErrEmptyTree = errors.New("compare: decoded tree has no chapters")

// Wire shapes for the external extraction collaborator. The LLM path
// produces this JSON; only codes, names, totals and items travel.
type wireProject struct {
	Name     string        `json:"name"`
	Chapters []wireChapter `json:"chapters"`
}

type wireChapter struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Total       float64          `json:"total"`
	Subchapters []wireSubchapter `json:"subchapters,omitempty"`
	Items       []wireItem       `json:"items,omitempty"`
}

type wireSubchapter struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Total       float64          `json:"total"`
	Subchapters []wireSubchapter `json:"subchapters,omitempty"`
	Items       []wireItem       `json:"items,omitempty"`
}

type wireItem struct {
	Code     string  `json:"code"`
	Unit     string  `json:"unit,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
}

// DecodeProject parses an externally extracted tree from JSON into the
// model shape consumed by [Comparator.Compare].
func DecodeProject(data []byte) (*model.Project, error) {
	var wire wireProject
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("compare: decoding tree: %w", err)
	}
	if len(wire.Chapters) == 0 {
		return nil, ErrEmptyTree
	}

	p := model.NewProject(wire.Name, "")
	for _, wc := range wire.Chapters {
		ch := &model.Chapter{
			Code:             wc.Code,
			Name:             wc.Name,
			Total:            wc.Total,
			HasDeclaredTotal: wc.Total != 0,
		}
		for _, wi := range wc.Items {
			ch.AddItem(decodeItem(wi))
		}
		for _, ws := range wc.Subchapters {
			ch.AddSubchapter(decodeSubchapter(ws))
		}
		p.AddChapter(ch)
	}
	return p, nil
}

func decodeSubchapter(ws wireSubchapter) *model.Subchapter {
	s := &model.Subchapter{
		Code:             ws.Code,
		Name:             ws.Name,
		Total:            ws.Total,
		HasDeclaredTotal: ws.Total != 0,
	}
	for _, wi := range ws.Items {
		s.AddItem(decodeItem(wi))
	}
	for _, child := range ws.Subchapters {
		s.AddSubchapter(decodeSubchapter(child))
	}
	return s
}

func decodeItem(wi wireItem) *model.LineItem {
	return &model.LineItem{
		Code:     wi.Code,
		Unit:     wi.Unit,
		Summary:  wi.Summary,
		Quantity: wi.Quantity,
		Price:    wi.Price,
		Amount:   wi.Amount,
	}
}

// EncodeProject serializes a tree into the same wire shape, the format
// sent to the collaborator when requesting a targeted re-extraction.
func EncodeProject(p *model.Project) ([]byte, error) {
	wire := wireProject{Name: p.Name}
	for _, ch := range p.Chapters {
		wc := wireChapter{Code: ch.Code, Name: ch.Name, Total: ch.Total}
		for _, it := range ch.Items {
			wc.Items = append(wc.Items, encodeItem(it))
		}
		for _, s := range ch.Subchapters {
			wc.Subchapters = append(wc.Subchapters, encodeSubchapter(s))
		}
		wire.Chapters = append(wire.Chapters, wc)
	}

	data, err := sonic.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("compare: encoding tree: %w", err)
	}
	return data, nil
}

func encodeSubchapter(s *model.Subchapter) wireSubchapter {
	ws := wireSubchapter{Code: s.Code, Name: s.Name, Total: s.Total}
	for _, it := range s.Items {
		ws.Items = append(ws.Items, encodeItem(it))
	}
	for _, a := range s.Apartados {
		for _, it := range a.Items {
			ws.Items = append(ws.Items, encodeItem(it))
		}
	}
	for _, child := range s.Subchapters {
		ws.Subchapters = append(ws.Subchapters, encodeSubchapter(child))
	}
	return ws
}

func encodeItem(it *model.LineItem) wireItem {
	return wireItem{
		Code:     it.Code,
		Unit:     it.Unit,
		Summary:  it.Summary,
		Quantity: it.Quantity,
		Price:    it.Price,
		Amount:   it.Amount,
	}
}
