package shuffle

import (
	"unicode/utf8"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
)

// Layout thresholds are in normalized visible characters; rich content
// (formulas, images) carries a fixed penalty so it never gets squeezed.
const (
	richPenalty  = 24
	lowThreshold = 14
	midThreshold = 34

	// tab stops in twips on a standard text width
	quarterStop = 2340
	halfStop    = 4680
)

// Reformat merges a 4-option MCQ into tabbed rows when the options are short
// enough: one row of four, two rows of two, or no change. Guarded no-op for
// any other option count or type.
func Reformat(q *exam.QuestionBlock) {
	if q.Type != exam.TypeMCQ {
		return
	}
	opts := exam.OptionNodes(q.Nodes)
	if len(opts) != 4 {
		return
	}
	maxW := 0
	paras := make([]*docx.Paragraph, 4)
	for i, o := range opts {
		p := q.Nodes[o.Index].Para
		if p == nil {
			return
		}
		paras[i] = p
		if w := weight(p); w > maxW {
			maxW = w
		}
	}

	var merged []*docx.BlockNode
	switch {
	case maxW <= lowThreshold:
		merged = []*docx.BlockNode{
			docx.MergeTabbed(paras, []int{quarterStop, halfStop, quarterStop + halfStop}),
		}
	case maxW <= midThreshold:
		merged = []*docx.BlockNode{
			docx.MergeTabbed(paras[:2], []int{halfStop}),
			docx.MergeTabbed(paras[2:], []int{halfStop}),
		}
	default:
		return
	}

	// splice: merged rows replace the four option nodes at the first
	// option's position
	first := opts[0].Index
	drop := map[int]bool{}
	for _, o := range opts {
		drop[o.Index] = true
	}
	out := make([]*docx.BlockNode, 0, len(q.Nodes))
	for i, n := range q.Nodes {
		if i == first {
			out = append(out, merged...)
		}
		if drop[i] {
			continue
		}
		out = append(out, n)
	}
	q.Nodes = out
}

func weight(p *docx.Paragraph) int {
	w := utf8.RuneCountInString(p.Text())
	if p.ContainsRichContent() {
		w += richPenalty
	}
	return w
}
