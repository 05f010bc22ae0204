package classify_test

import (
	"strings"
	"testing"

	"github.com/examix/examix/internal/classify"
	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
)

func pnode(text string, underlined bool) *docx.BlockNode {
	var rpr string
	if underlined {
		rpr = `<w:rPr><w:u w:val="single"/></w:rPr>`
	}
	return docx.NewParagraphNode(
		`<w:p><w:r>` + rpr + `<w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`)
}

func build(t *testing.T, section string, lines ...string) (*exam.QuestionBlock, []exam.ValidationIssue) {
	t.Helper()
	nodes := make([]*docx.BlockNode, 0, len(lines))
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		u := strings.HasPrefix(l, "_")
		l = strings.TrimPrefix(l, "_")
		nodes = append(nodes, pnode(l, u))
		texts = append(texts, l)
	}
	return classify.Build(nodes, strings.Join(texts, "\n"), section, 1)
}

func countErrors(issues []exam.ValidationIssue) int {
	n := 0
	for _, is := range issues {
		if is.Severity == exam.SeverityError {
			n++
		}
	}
	return n
}

func TestBuildValidMCQ(t *testing.T) {
	q, issues := build(t, "PHẦN I. TRẮC NGHIỆM",
		"Câu 3. Giá trị của x là?",
		"A. 1", "B. 2", "_C. 3", "D. 4")
	if q.Type != exam.TypeMCQ {
		t.Fatalf("type = %s", q.Type)
	}
	if !q.Valid || len(issues) != 0 {
		t.Fatalf("valid=%v issues=%v", q.Valid, issues)
	}
	if q.Label != "Câu 3" || q.OptionCount != 4 || !q.HasUnderline {
		t.Errorf("label=%q options=%d underline=%v", q.Label, q.OptionCount, q.HasUnderline)
	}
}

func TestBuildMCQMissingUnderline(t *testing.T) {
	q, issues := build(t, "PHẦN I",
		"Câu 1. Chọn đáp án", "A. 1", "B. 2", "C. 3", "D. 4")
	if q.Valid {
		t.Error("question without a marked answer must be invalid")
	}
	if countErrors(issues) != 1 {
		t.Errorf("issues = %v", issues)
	}
}

func TestBuildMCQInlineOptions(t *testing.T) {
	q, issues := build(t, "PHẦN I",
		"Câu 2. x bằng? A. 1 B. 2 C. 3 D. 4")
	if q.Type != exam.TypeMCQ {
		t.Fatalf("type = %s", q.Type)
	}
	if q.Valid {
		t.Error("unsplit options must invalidate the question")
	}
	found := false
	for _, is := range issues {
		if strings.Contains(is.Problem, "chung trên một dòng") {
			found = true
		}
	}
	if !found {
		t.Errorf("no inline-options issue in %v", issues)
	}
}

func TestBuildMCQTooManyOptions(t *testing.T) {
	q, issues := build(t, "PHẦN I",
		"Câu 4. Chọn", "_A. 1", "B. 2", "C. 3", "D. 4", "E. 5")
	if !q.Valid {
		t.Error("a fifth option is a warning, not an error")
	}
	if len(issues) != 1 || issues[0].Severity != exam.SeverityWarning {
		t.Errorf("issues = %v", issues)
	}
}

func TestBuildTrueFalse(t *testing.T) {
	q, issues := build(t, "PHẦN II",
		"Câu 1. Xét các khẳng định sau",
		"_a) đúng một", "b) sai hai", "_c) đúng ba", "d) sai bốn")
	if q.Type != exam.TypeTrueFalse {
		t.Fatalf("type = %s", q.Type)
	}
	if !q.Valid || len(issues) != 0 {
		t.Fatalf("valid=%v issues=%v", q.Valid, issues)
	}
}

func TestBuildTrueFalseNoUnderline(t *testing.T) {
	q, issues := build(t, "PHẦN II",
		"Câu 1. Xét các khẳng định", "a) một", "b) hai")
	if q.Valid {
		t.Error("all-false block needs confirmation, must not be valid")
	}
	if len(issues) != 1 || issues[0].Severity != exam.SeverityWarning {
		t.Errorf("issues = %v", issues)
	}
}

func TestBuildShortAnswerByTag(t *testing.T) {
	q, issues := build(t, "PHẦN I",
		"Câu 6. Tính tổng. #DA: 15#")
	if q.Type != exam.TypeShortAnswer {
		t.Fatalf("type = %s", q.Type)
	}
	if !q.Valid || len(issues) != 0 || !q.HasKeyTag {
		t.Fatalf("valid=%v tag=%v issues=%v", q.Valid, q.HasKeyTag, issues)
	}
}

func TestBuildShortAnswerMissingTag(t *testing.T) {
	q, issues := build(t, "PHẦN III. Câu trắc nghiệm trả lời ngắn",
		"Câu 2. Tính giá trị biểu thức")
	if q.Type != exam.TypeShortAnswer {
		t.Fatalf("type = %s", q.Type)
	}
	if q.Valid || countErrors(issues) != 1 {
		t.Errorf("valid=%v issues=%v", q.Valid, issues)
	}
}

func TestBuildEssay(t *testing.T) {
	q, issues := build(t, "PHẦN IV. TỰ LUẬN",
		"Câu 1. Chứng minh bất đẳng thức trên với mọi số thực dương.")
	if q.Type != exam.TypeEssay {
		t.Fatalf("type = %s", q.Type)
	}
	if !q.Valid || len(issues) != 0 {
		t.Fatalf("valid=%v issues=%v", q.Valid, issues)
	}
}

func TestBuildUnknown(t *testing.T) {
	q, issues := build(t, "", "Câu 1.")
	if q.Type != exam.TypeUnknown || q.Valid {
		t.Fatalf("type=%s valid=%v", q.Type, q.Valid)
	}
	if countErrors(issues) != 1 {
		t.Errorf("issues = %v", issues)
	}
}
