// Package answer extracts the ground-truth answer of a question from its
// formatting side-channel (underline) or inline key tag. Resolution must run
// before answer formatting is stripped.
package answer

import (
	"strings"

	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/pattern"
)

const (
	trueMark  = "Đ"
	falseMark = "S"
)

// Resolve returns the answer string for a question in its current node
// order: the correct letter for MCQ, one Đ/S symbol per sub-item for
// true/false, the key-tag value for short answers, empty for essays.
func Resolve(q *exam.QuestionBlock) string {
	switch q.Type {
	case exam.TypeShortAnswer:
		v, _ := pattern.ExtractKeyTag(joinText(q))
		return v
	case exam.TypeMCQ:
		opts := exam.OptionNodes(q.Nodes)
		for i, o := range opts {
			p := q.Nodes[o.Index].Para
			if p == nil || !p.Underlined() {
				continue
			}
			if l := o.Opt.Letter; l >= 'A' && l <= 'F' {
				return string(l)
			}
			// formatted but ambiguous marker: positional letter
			return string(rune('A' + i))
		}
		return ""
	case exam.TypeTrueFalse:
		opts := exam.OptionNodes(q.Nodes)
		var b strings.Builder
		for _, o := range opts {
			if p := q.Nodes[o.Index].Para; p != nil && p.Underlined() {
				b.WriteString(trueMark)
			} else {
				b.WriteString(falseMark)
			}
		}
		return b.String()
	default:
		return ""
	}
}

// joinText re-projects the question's current nodes; the stored Text snapshot
// may predate shuffling.
func joinText(q *exam.QuestionBlock) string {
	parts := make([]string, 0, len(q.Nodes))
	for _, n := range q.Nodes {
		parts = append(parts, n.Text())
	}
	return strings.Join(parts, "\n")
}
