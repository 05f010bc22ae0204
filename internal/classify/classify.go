// Package classify assigns a question type to a question segment and
// computes its validity flag plus structured issues. It reads the segment's
// text and per-node formatting; it never mutates the nodes.
package classify

import (
	"strings"

	"github.com/google/uuid"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/pattern"
)

const essayMinLen = 10

// Build constructs the QuestionBlock for one question segment, tagged with
// the section active at flush time.
func Build(nodes []*docx.BlockNode, text, section string, ordinal int) (*exam.QuestionBlock, []exam.ValidationIssue) {
	label, _ := pattern.IsQuestionStart(text)
	q := &exam.QuestionBlock{
		ID:      uuid.NewString(),
		Ordinal: ordinal,
		Label:   label,
		Section: section,
		Nodes:   nodes,
		Text:    text,
	}
	q.Type = detectType(text, section)
	_, q.HasKeyTag = pattern.ExtractKeyTag(text)
	q.HasUnderline = anyUnderlined(nodes)
	opts := exam.OptionNodes(nodes)
	q.OptionCount = len(opts)

	issues := validate(q, opts)
	q.Valid = true
	for _, is := range issues {
		if is.Severity == exam.SeverityError {
			q.Valid = false
		}
	}
	// an all-false true/false block is legal but suspicious: warning only,
	// yet it still fails validity until someone confirms it
	if q.Type == exam.TypeTrueFalse && !underlinedOption(nodes, opts) {
		q.Valid = false
	}
	if q.Type == exam.TypeUnknown {
		q.Valid = false
	}
	return q, issues
}

func detectType(text, section string) exam.QuestionType {
	if _, ok := pattern.ExtractKeyTag(text); ok {
		return exam.TypeShortAnswer
	}
	upperN, lowerN := pattern.CountOptionMarkers(text)
	switch {
	case upperN >= 2 && upperN > lowerN:
		return exam.TypeMCQ
	case lowerN >= 2 && lowerN > upperN:
		return exam.TypeTrueFalse
	}
	if pattern.HasInlineOptionRun(text) {
		return exam.TypeMCQ
	}
	if pattern.IsShortAnswerSection(section) {
		return exam.TypeShortAnswer
	}
	if pattern.IsEssaySection(section) {
		return exam.TypeEssay
	}
	return exam.TypeUnknown
}

func validate(q *exam.QuestionBlock, opts []exam.OptionNode) []exam.ValidationIssue {
	issue := func(sev exam.Severity, problem, suggestion string) exam.ValidationIssue {
		return exam.ValidationIssue{
			QuestionID: q.ID,
			Label:      q.Label,
			Type:       q.Type,
			Severity:   sev,
			Problem:    problem,
			Suggestion: suggestion,
		}
	}

	var out []exam.ValidationIssue
	switch q.Type {
	case exam.TypeMCQ:
		if len(opts) < 2 {
			if pattern.HasInlineOptionRun(q.Text) {
				out = append(out, issue(exam.SeverityError,
					"các phương án nằm chung trên một dòng",
					"tách mỗi phương án A/B/C/D xuống một dòng riêng"))
			} else {
				out = append(out, issue(exam.SeverityError,
					"câu trắc nghiệm có ít hơn 2 phương án trên dòng riêng",
					"mỗi phương án cần nằm trên một dòng bắt đầu bằng A., B., ..."))
			}
		}
		if !underlinedOption(q.Nodes, opts) {
			out = append(out, issue(exam.SeverityError,
				"chưa gạch chân phương án đúng",
				"gạch chân chữ cái của phương án đúng"))
		}
		if len(opts) > 4 {
			out = append(out, issue(exam.SeverityWarning,
				"câu có nhiều hơn 4 phương án; việc cân bằng đáp án chỉ xét A-D",
				""))
		}
	case exam.TypeTrueFalse:
		if !underlinedOption(q.Nodes, opts) {
			out = append(out, issue(exam.SeverityWarning,
				"không có ý nào được gạch chân (tất cả là Sai?)",
				"gạch chân các ý Đúng nếu có"))
		}
	case exam.TypeShortAnswer:
		if !q.HasKeyTag {
			out = append(out, issue(exam.SeverityError,
				"câu trả lời ngắn thiếu thẻ đáp án #DA: ...#",
				"thêm thẻ #DA: <đáp án># vào cuối câu hỏi"))
		}
	case exam.TypeEssay:
		if len(strings.TrimSpace(q.Text)) < essayMinLen {
			out = append(out, issue(exam.SeverityError, "câu tự luận rỗng", ""))
		}
	case exam.TypeUnknown:
		out = append(out, issue(exam.SeverityError,
			"không xác định được dạng câu hỏi",
			"kiểm tra định dạng phương án hoặc thẻ đáp án"))
	}
	return out
}

func anyUnderlined(nodes []*docx.BlockNode) bool {
	for _, n := range nodes {
		if n.Para != nil && n.Para.Underlined() {
			return true
		}
	}
	return false
}

func underlinedOption(nodes []*docx.BlockNode, opts []exam.OptionNode) bool {
	for _, o := range opts {
		if p := nodes[o.Index].Para; p != nil && p.Underlined() {
			return true
		}
	}
	return false
}
