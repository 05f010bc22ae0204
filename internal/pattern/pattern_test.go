package pattern_test

import (
	"testing"

	"github.com/examix/examix/internal/pattern"
)

func TestIsQuestionStart(t *testing.T) {
	cases := []struct {
		text  string
		label string
		ok    bool
	}{
		{"Câu 1. Cho hàm số", "Câu 1", true},
		{"Câu 12: Tính đạo hàm", "Câu 12", true},
		{"  Câu 3) Một vật", "Câu 3", true},
		{"Câu hỏi thêm", "", false},
		{"Bài 1. Không phải câu", "", false},
		{"xem lại Câu 1.", "", false},
	}
	for _, c := range cases {
		label, ok := pattern.IsQuestionStart(c.text)
		if ok != c.ok || label != c.label {
			t.Errorf("IsQuestionStart(%q) = %q,%v; want %q,%v", c.text, label, ok, c.label, c.ok)
		}
	}
}

func TestIsSectionHeader(t *testing.T) {
	for _, s := range []string{
		"PHẦN I. TRẮC NGHIỆM",
		"Phần 2: TỰ LUẬN",
		"PHẦN III - Trả lời ngắn",
	} {
		if !pattern.IsSectionHeader(s) {
			t.Errorf("IsSectionHeader(%q) = false", s)
		}
	}
	for _, s := range []string{"Câu 1. text", "phần mở đầu của đề"} {
		if pattern.IsSectionHeader(s) {
			t.Errorf("IsSectionHeader(%q) = true", s)
		}
	}
}

func TestSectionKinds(t *testing.T) {
	if !pattern.IsEssaySection("PHẦN II. TỰ LUẬN") {
		t.Error("essay section not recognized")
	}
	if pattern.IsEssaySection("PHẦN I. TRẮC NGHIỆM") {
		t.Error("mcq section flagged as essay")
	}
	if !pattern.IsShortAnswerSection("PHẦN III. Câu trắc nghiệm trả lời ngắn") {
		t.Error("short-answer section not recognized")
	}
}

func TestMatchOption(t *testing.T) {
	opt, ok := pattern.MatchOption("A. 42", "A. 42")
	if !ok || opt.Letter != 'A' || opt.Separator != '.' || opt.Loose {
		t.Fatalf("strict upper: %+v ok=%v", opt, ok)
	}
	opt, ok = pattern.MatchOption("b) sai", "b) sai")
	if !ok || opt.Letter != 'B' || opt.Separator != ')' {
		t.Fatalf("strict lower: %+v ok=%v", opt, ok)
	}
	// A separator split into the next fragment reassembles in the joined
	// text and still matches strict.
	opt, ok = pattern.MatchOption("C. 3,14", "C")
	if !ok || opt.Loose || opt.Separator != '.' {
		t.Fatalf("split separator: %+v ok=%v", opt, ok)
	}
	// No separator anywhere in the text: the bare-letter fragment is loose.
	opt, ok = pattern.MatchOption("C\t3,14", "C")
	if !ok || !opt.Loose || opt.Letter != 'C' {
		t.Fatalf("loose: %+v ok=%v", opt, ok)
	}
	if _, ok := pattern.MatchOption("Giải: xem A. ở trên", "Giải: xem A. ở trên"); ok {
		t.Error("mid-line marker must not match")
	}
}

func TestCountOptionMarkers(t *testing.T) {
	text := "Câu 1. Chọn đáp án\nA. một\nB. hai\nc. ba\nD. bốn"
	up, low := pattern.CountOptionMarkers(text)
	if up != 3 || low != 1 {
		t.Errorf("got %d upper %d lower, want 3/1", up, low)
	}
}

func TestHasInlineOptionRun(t *testing.T) {
	if !pattern.HasInlineOptionRun("Câu 1. x bằng? A. 1 B. 2 C. 3 D. 4") {
		t.Error("inline run not detected")
	}
	if pattern.HasInlineOptionRun("A. 1\nB. 2\nC. 3\nD. 4") {
		t.Error("split options misread as inline run")
	}
}

func TestKeyTag(t *testing.T) {
	val, ok := pattern.ExtractKeyTag("Câu 5. Tính x. #DA: 2,5#")
	if !ok || val != "2,5" {
		t.Fatalf("got %q,%v", val, ok)
	}
	val, ok = pattern.ExtractKeyTag("kết quả #ĐA:  -7 # cuối")
	if !ok || val != "-7" {
		t.Fatalf("unicode tag: got %q,%v", val, ok)
	}
	start, end, ok := pattern.KeyTagSpan("x #DA: 9# y")
	if !ok || start != 2 || end != 9 {
		t.Fatalf("span = %d,%d,%v", start, end, ok)
	}
	if _, ok := pattern.ExtractKeyTag("không có tag"); ok {
		t.Error("false positive")
	}
}

func TestCodeReplacements(t *testing.T) {
	reps := pattern.CodeReplacements("Mã đề thi: 000", "132")
	if len(reps) != 1 {
		t.Fatalf("got %d replacements", len(reps))
	}
	if reps[0].With != "132" {
		t.Errorf("With = %q", reps[0].With)
	}

	reps = pattern.CodeReplacements("ĐỀ {made} - Mã đề: ", "205")
	if len(reps) != 2 {
		t.Fatalf("got %d replacements, want placeholder plus label", len(reps))
	}
	// The label carries no digits; the span is an insertion point.
	if reps[1].Start != reps[1].End {
		t.Errorf("empty label span = [%d,%d)", reps[1].Start, reps[1].End)
	}

	// Label immediately followed by the placeholder collapses to one span.
	reps = pattern.CodeReplacements("Mã đề: {made}", "245")
	if len(reps) != 1 {
		t.Fatalf("got %d replacements, want one per site", len(reps))
	}
	if reps[0].End-reps[0].Start != len("{made}") || reps[0].With != "245" {
		t.Errorf("span = %+v", reps[0])
	}

	// Spans come back position-sorted so callers can apply them in reverse.
	reps = pattern.CodeReplacements("Mã đề 07 rồi {made}", "301")
	if len(reps) != 2 || reps[0].Start > reps[1].Start {
		t.Fatalf("spans out of order: %+v", reps)
	}

	if pattern.MentionsCode("chỉ là văn bản") {
		t.Error("MentionsCode false positive")
	}
}
