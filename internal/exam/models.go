package exam

import "github.com/examix/examix/internal/docx"

type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeTrueFalse   QuestionType = "true_false"
	TypeShortAnswer QuestionType = "short_answer"
	TypeEssay       QuestionType = "essay"
	TypeUnknown     QuestionType = "unknown"
)

// RenderOrder is the fixed emission order of question types inside a section.
var RenderOrder = []QuestionType{TypeMCQ, TypeTrueFalse, TypeShortAnswer, TypeEssay, TypeUnknown}

type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentQuestion
)

// Segment is a contiguous run of block nodes, either static content or
// exactly one question.
type Segment struct {
	Kind     SegmentKind
	Nodes    []*docx.BlockNode
	Text     string
	Section  string
	Question *QuestionBlock // set iff Kind == SegmentQuestion
}

type QuestionBlock struct {
	ID           string            `json:"id"`
	Ordinal      int               `json:"ordinal"` // 1-based position among questions in the source
	Label        string            `json:"label"`   // original leading label, e.g. "Câu 12"
	Section      string            `json:"section"` // nearest preceding section header, may be empty
	Type         QuestionType      `json:"type"`
	Nodes        []*docx.BlockNode `json:"-"`
	Text         string            `json:"text"`
	Valid        bool              `json:"valid"`
	HasUnderline bool              `json:"has_underline"`
	HasKeyTag    bool              `json:"has_key_tag"`
	OptionCount  int               `json:"option_count"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue reports one problem with one question. It never mutates
// the question it references.
type ValidationIssue struct {
	QuestionID string       `json:"question_id"`
	Label      string       `json:"label"`
	Type       QuestionType `json:"type"`
	Severity   Severity     `json:"severity"`
	Problem    string       `json:"problem"`
	Suggestion string       `json:"suggestion,omitempty"`
}

type MixOptions struct {
	ShuffleQuestions bool `json:"shuffle_questions"`
	ShuffleOptions   bool `json:"shuffle_options"`
}

type HeaderConfig struct {
	Enabled     bool   `json:"enabled"`
	Institution string `json:"institution"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Duration    string `json:"duration"`
	Year        string `json:"year"`
	FooterText  string `json:"footer_text"`
}

// Variant is one generated exam instance. Only Code and Answers survive into
// the answer matrix; Doc is the serialized package.
type Variant struct {
	Code    int            `json:"code"`
	Doc     []byte         `json:"-"`
	Answers map[int]string `json:"answers"` // global question index (1-based) -> answer
}

// AnswerMatrix maps global question index -> variant code -> answer.
type AnswerMatrix map[int]map[int]string

// Matrix aggregates the variants' answer maps. Built only after all variants
// are generated.
func Matrix(variants []Variant) AnswerMatrix {
	m := AnswerMatrix{}
	for _, v := range variants {
		for idx, ans := range v.Answers {
			row, ok := m[idx]
			if !ok {
				row = map[int]string{}
				m[idx] = row
			}
			row[v.Code] = ans
		}
	}
	return m
}
