package segment_test

import (
	"testing"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/segment"
)

func pnode(text string) *docx.BlockNode {
	return docx.NewParagraphNode(
		`<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`)
}

func unode(text string) *docx.BlockNode {
	return docx.NewParagraphNode(
		`<w:p><w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`)
}

func TestSplitEmpty(t *testing.T) {
	res := segment.Split(nil)
	if len(res.Segments) != 0 || len(res.Questions) != 0 {
		t.Fatalf("empty input produced %d segments %d questions", len(res.Segments), len(res.Questions))
	}
}

func TestSplitStaticOnly(t *testing.T) {
	res := segment.Split([]*docx.BlockNode{pnode("Trường THPT A"), pnode("ĐỀ KIỂM TRA")})
	if len(res.Segments) != 1 || res.Segments[0].Kind != exam.SegmentStatic {
		t.Fatalf("segments = %+v", res.Segments)
	}
	if len(res.Questions) != 0 {
		t.Error("static document must yield no questions")
	}
}

func TestSplitSectionsAndQuestions(t *testing.T) {
	nodes := []*docx.BlockNode{
		pnode("SỞ GIÁO DỤC VÀ ĐÀO TẠO"),
		pnode("PHẦN I. TRẮC NGHIỆM"),
		pnode("Câu 1. Chọn đáp án"),
		pnode("A. 1"), pnode("B. 2"), unode("C. 3"), pnode("D. 4"),
		pnode("Câu 2. Tính tổng. #DA: 7#"),
		pnode("PHẦN II. TỰ LUẬN"),
		pnode("Câu 1. Chứng minh đẳng thức đã cho."),
	}
	res := segment.Split(nodes)

	if len(res.Questions) != 3 {
		t.Fatalf("got %d questions", len(res.Questions))
	}
	q1, q2, q3 := res.Questions[0], res.Questions[1], res.Questions[2]

	if q1.Section != "PHẦN I. TRẮC NGHIỆM" || q1.Type != exam.TypeMCQ {
		t.Errorf("q1 section=%q type=%s", q1.Section, q1.Type)
	}
	if len(q1.Nodes) != 5 {
		t.Errorf("q1 carries %d nodes, want stem plus 4 options", len(q1.Nodes))
	}
	if q2.Type != exam.TypeShortAnswer {
		t.Errorf("q2 type = %s", q2.Type)
	}
	if q3.Section != "PHẦN II. TỰ LUẬN" || q3.Type != exam.TypeEssay {
		t.Errorf("q3 section=%q type=%s", q3.Section, q3.Type)
	}

	// ordinals follow source order across sections
	for i, q := range res.Questions {
		if q.Ordinal != i+1 {
			t.Errorf("ordinal[%d] = %d", i, q.Ordinal)
		}
	}

	if !segment.IsHeaderSegment(res.Segments[1]) {
		t.Error("section header segment not detected")
	}
	if segment.IsHeaderSegment(res.Segments[0]) {
		t.Error("preamble misread as header")
	}
}

func TestSplitQuestionEndsAtNextMarker(t *testing.T) {
	nodes := []*docx.BlockNode{
		pnode("Câu 1. Đề bài"),
		pnode("dòng phụ của câu 1"),
		pnode("Câu 2. Đề bài khác"),
	}
	res := segment.Split(nodes)
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions", len(res.Questions))
	}
	if len(res.Questions[0].Nodes) != 2 || len(res.Questions[1].Nodes) != 1 {
		t.Errorf("node split = %d/%d", len(res.Questions[0].Nodes), len(res.Questions[1].Nodes))
	}
}
