// Package segment walks a document's ordered block nodes and groups them
// into static and question segments, tracking the active section label.
package segment

import (
	"strings"

	"github.com/examix/examix/internal/classify"
	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/pattern"
)

// Result bundles the segmenter's output. Segments keep document order;
// Questions keep source ordinal order.
type Result struct {
	Segments  []*exam.Segment
	Questions []*exam.QuestionBlock
	Issues    []exam.ValidationIssue
}

// Split never fails: an empty or all-static document yields zero questions.
// The caller removes any trailing page-setup node beforehand.
func Split(nodes []*docx.BlockNode) Result {
	var res Result
	var cur *exam.Segment
	section := ""
	ordinal := 0

	flush := func() {
		if cur == nil {
			return
		}
		if cur.Kind == exam.SegmentQuestion {
			ordinal++
			q, issues := classify.Build(cur.Nodes, cur.Text, cur.Section, ordinal)
			cur.Question = q
			res.Questions = append(res.Questions, q)
			res.Issues = append(res.Issues, issues...)
		}
		res.Segments = append(res.Segments, cur)
		cur = nil
	}

	for _, n := range nodes {
		text := n.Text()
		switch {
		case pattern.IsSectionHeader(text):
			flush()
			section = strings.TrimSpace(text)
			cur = &exam.Segment{Kind: exam.SegmentStatic, Nodes: []*docx.BlockNode{n}, Text: text, Section: section}
		case isQuestionStart(text):
			flush()
			cur = &exam.Segment{Kind: exam.SegmentQuestion, Nodes: []*docx.BlockNode{n}, Text: text, Section: section}
		default:
			if cur == nil {
				cur = &exam.Segment{Kind: exam.SegmentStatic, Section: section}
			}
			cur.Nodes = append(cur.Nodes, n)
			if cur.Text == "" {
				cur.Text = text
			} else {
				cur.Text += "\n" + text
			}
		}
	}
	flush()
	return res
}

func isQuestionStart(text string) bool {
	_, ok := pattern.IsQuestionStart(text)
	return ok
}

// IsHeaderSegment reports whether a static segment is a section header.
func IsHeaderSegment(s *exam.Segment) bool {
	return s.Kind == exam.SegmentStatic && len(s.Nodes) > 0 && pattern.IsSectionHeader(s.Nodes[0].Text())
}
