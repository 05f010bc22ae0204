// Package pattern holds every text predicate the pipeline uses to recognize
// exam structure. Nothing here touches the document tree; the segmenter and
// classifier stay testable against plain strings, and the conventions can be
// swapped per locale without touching pipeline logic.
package pattern

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// "Câu 12." / "Câu 12:" / "Câu 12)" at the start of a block.
	questionStart = regexp.MustCompile(`^\s*Câu\s*(\d+)\s*[.:)]`)

	// "PHẦN I." / "Phần 2:" section headers.
	sectionHeader = regexp.MustCompile(`^\s*(?:PHẦN|Phần)\s+(?:[IVX]+|\d+)\s*[.:)-]?`)

	// Free-response sections keep their question order and take essays.
	essaySection = regexp.MustCompile(`(?i)tự\s*luận`)

	// Short-answer sections ("trả lời ngắn") type their untagged questions.
	shortSection = regexp.MustCompile(`(?i)trả\s*lời\s*ngắn`)

	// Strict option marker at the start of a line: "A." "b)" "C:".
	optionUpper = regexp.MustCompile(`(?m)^\s*([A-F])\s*([.):])\s*`)
	optionLower = regexp.MustCompile(`(?m)^\s*([a-f])\s*([.):])\s*`)

	// Loose marker: a bare letter when the separator got split into the next
	// text fragment.
	optionLoose = regexp.MustCompile(`^\s*([A-Fa-f])\s*$`)

	// >=3 uppercase markers inside one line means options were never split
	// onto their own paragraphs.
	inlineOptions = regexp.MustCompile(`(?:^|\s)[A-F]\s*[.):]`)

	// Inline answer-key tag for short answers: "#DA: 42#" (also "#ĐA:").
	keyTag = regexp.MustCompile(`#(?:DA|ĐA)\s*:\s*([^#]*)#`)

	// Exam-code substitution targets.
	codePlaceholder = regexp.MustCompile(`\{made\}`)
	codeLabel       = regexp.MustCompile(`(?i)(Mã\s*đề(?:\s*thi)?\s*:?\s*)(\d*)`)
)

// IsQuestionStart reports whether text opens a new question block and returns
// the question's label ("Câu 12") when it does.
func IsQuestionStart(text string) (label string, ok bool) {
	m := questionStart.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(m[0], ".:)")), true
}

// QuestionLabelSpan returns the [start,end) span of the leading question
// label (marker plus separator) in text, or ok=false.
func QuestionLabelSpan(text string) (start, end int, ok bool) {
	loc := questionStart.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

func IsSectionHeader(text string) bool {
	return sectionHeader.MatchString(strings.TrimSpace(text))
}

// IsEssaySection reports whether a section label denotes free-response
// content. Such sections are fixed-order and classify untyped questions as
// essays.
func IsEssaySection(section string) bool {
	return essaySection.MatchString(section)
}

// Option is one matched option marker.
type Option struct {
	Letter    byte // uppercase 'A'..'F'
	Separator byte // '.', ')' or ':'
	Start     int  // span of the marker in the matched text
	End       int
	Loose     bool
}

// MatchOption matches a strict line-initial option marker at the start of
// text. firstFragment is the text of the node's first raw fragment; it is
// consulted for the loose letter-only form when the separator was split off
// into an adjacent fragment.
func MatchOption(text, firstFragment string) (Option, bool) {
	if m := optionUpper.FindStringSubmatchIndex(text); m != nil && m[0] == 0 {
		return Option{
			Letter:    upper(text[m[2]]),
			Separator: text[m[4]],
			Start:     m[0],
			End:       m[1],
		}, true
	}
	if m := optionLower.FindStringSubmatchIndex(text); m != nil && m[0] == 0 {
		return Option{
			Letter:    upper(text[m[2]]),
			Separator: text[m[4]],
			Start:     m[0],
			End:       m[1],
		}, true
	}
	if m := optionLoose.FindStringSubmatch(firstFragment); m != nil {
		return Option{
			Letter:    upper(m[1][0]),
			Separator: '.',
			Start:     0,
			End:       len(firstFragment),
			Loose:     true,
		}, true
	}
	return Option{}, false
}

// CountOptionMarkers counts line-initial uppercase and lowercase option
// markers in a question's full text.
func CountOptionMarkers(text string) (upperN, lowerN int) {
	return len(optionUpper.FindAllString(text, -1)), len(optionLower.FindAllString(text, -1))
}

// HasInlineOptionRun reports an unsplit run of >=3 uppercase markers within
// a single line.
func HasInlineOptionRun(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if len(inlineOptions.FindAllString(line, -1)) >= 3 {
			return true
		}
	}
	return false
}

// ExtractKeyTag returns the trimmed value of the first inline answer-key tag.
func ExtractKeyTag(text string) (string, bool) {
	m := keyTag.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// KeyTagSpan returns the [start,end) byte span of the whole tag in text.
func KeyTagSpan(text string) (start, end int, ok bool) {
	loc := keyTag.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// IsShortAnswerSection reports whether a section label denotes short-answer
// content.
func IsShortAnswerSection(section string) bool {
	return shortSection.MatchString(section)
}

// Replacement is one span of text to overwrite with the variant code.
type Replacement struct {
	Start, End int
	With       string
}

// CodeReplacements returns the spans in text that carry the code placeholder
// or the digits after a "Mã đề" label, each to be replaced by code. Spans are
// ordered by position; an empty span is an insertion point.
func CodeReplacements(text, code string) []Replacement {
	var out []Replacement
	placeholders := codePlaceholder.FindAllStringIndex(text, -1)
	for _, m := range placeholders {
		out = append(out, Replacement{Start: m[0], End: m[1], With: code})
	}
	for _, m := range codeLabel.FindAllStringSubmatchIndex(text, -1) {
		// A label followed by the placeholder ("Mã đề: {made}") yields an
		// empty insertion span at the placeholder; that site is already
		// covered, one substitution per site.
		if m[4] == m[5] && coveredBy(placeholders, m[4]) {
			continue
		}
		out = append(out, Replacement{Start: m[4], End: m[5], With: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func coveredBy(spans [][]int, pos int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos <= s[1] {
			return true
		}
	}
	return false
}

// MentionsCode reports whether text carries a code placeholder or label.
func MentionsCode(text string) bool {
	return codePlaceholder.MatchString(text) || codeLabel.MatchString(text)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
