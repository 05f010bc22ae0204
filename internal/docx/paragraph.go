package docx

import (
	"regexp"
	"strings"
)

// Paragraph wraps one w:p element's raw XML. All edits are targeted splices
// into the raw bytes; anything not touched serializes back exactly as read.
//
// Offsets used by DeleteRange/ReplaceRange/InsertAt are positions in Text(),
// which is the concatenation of the raw text-fragment contents (entities are
// left encoded so the two coordinate systems stay identical).
type Paragraph struct {
	raw string
}

func (p *Paragraph) Raw() string { return p.raw }

var (
	wtOpen    = regexp.MustCompile(`<w:t(?:\s[^>]*)?/?>`)
	paraOpen  = regexp.MustCompile(`^<w:p(?:\s[^>]*)?>`)
	runOpenRe = regexp.MustCompile(`<w:r(?:\s[^>]*)?>`)

	underlineVal  = regexp.MustCompile(`<w:u\b[^>]*?w:val="([^"]*)"`)
	underlineBare = regexp.MustCompile(`<w:u\s*/>`)

	stripUnderline = regexp.MustCompile(`<w:u\b[^>]*/>`)
	stripColor     = regexp.MustCompile(`<w:color\b[^>]*/>`)
	stripHighlight = regexp.MustCompile(`<w:highlight\b[^>]*/>`)
	stripShading   = regexp.MustCompile(`<w:shd\b[^>]*/>`)

	jcVal = regexp.MustCompile(`(<w:jc\s[^>]*w:val=")[^"]*(")`)
)

// fragment is one w:t element's content span within raw.
type fragment struct {
	cs, ce int // content [cs:ce)
}

func scanFragments(raw string) []fragment {
	var frags []fragment
	for _, m := range wtOpen.FindAllStringIndex(raw, -1) {
		if strings.HasSuffix(raw[m[0]:m[1]], "/>") {
			frags = append(frags, fragment{cs: m[1], ce: m[1]})
			continue
		}
		close := strings.Index(raw[m[1]:], "</w:t>")
		if close < 0 {
			continue
		}
		frags = append(frags, fragment{cs: m[1], ce: m[1] + close})
	}
	return frags
}

func concatFragments(raw string) string {
	var b strings.Builder
	for _, f := range scanFragments(raw) {
		b.WriteString(raw[f.cs:f.ce])
	}
	return b.String()
}

// Text is the paragraph's plain-text projection.
func (p *Paragraph) Text() string { return concatFragments(p.raw) }

// FirstFragment returns the first text fragment's content.
func (p *Paragraph) FirstFragment() string {
	frags := scanFragments(p.raw)
	if len(frags) == 0 {
		return ""
	}
	return p.raw[frags[0].cs:frags[0].ce]
}

// Underlined reports whether any run carries an explicit underline whose
// value is not the null style.
func (p *Paragraph) Underlined() bool {
	for _, m := range underlineVal.FindAllStringSubmatch(p.raw, -1) {
		if v := m[1]; v != "none" && v != "" {
			return true
		}
	}
	return underlineBare.MatchString(p.raw)
}

// DeleteRange removes text positions [start,end). The deletion is remapped
// onto the underlying fragments, so a span split across adjacent fragments
// is handled correctly and surrounding markup is untouched.
func (p *Paragraph) DeleteRange(start, end int) {
	if start >= end {
		return
	}
	frags := scanFragments(p.raw)
	type cut struct{ s, e int }
	var cuts []cut
	off := 0
	for _, f := range frags {
		flen := f.ce - f.cs
		fs, fe := off, off+flen
		if fe > start && fs < end {
			cs := max(start, fs) - fs
			ce := min(end, fe) - fs
			cuts = append(cuts, cut{f.cs + cs, f.cs + ce})
		}
		off += flen
	}
	for i := len(cuts) - 1; i >= 0; i-- {
		p.raw = p.raw[:cuts[i].s] + p.raw[cuts[i].e:]
	}
}

// InsertAt splices s (XML-escaped) into the fragment containing text
// position pos.
func (p *Paragraph) InsertAt(pos int, s string) {
	if s == "" {
		return
	}
	esc := escapeXML(s)
	frags := scanFragments(p.raw)
	if len(frags) == 0 {
		return
	}
	off := 0
	for _, f := range frags {
		flen := f.ce - f.cs
		if pos <= off+flen {
			at := f.cs + (pos - off)
			p.raw = p.raw[:at] + esc + p.raw[at:]
			return
		}
		off += flen
	}
	// past the end: append into the last fragment
	last := frags[len(frags)-1]
	p.raw = p.raw[:last.ce] + esc + p.raw[last.ce:]
}

// ReplaceRange replaces text positions [start,end) with s.
func (p *Paragraph) ReplaceRange(start, end int, s string) {
	p.DeleteRange(start, end)
	p.InsertAt(start, s)
}

// StripAnswerFormatting removes every answer-revealing run property:
// underline, font color, highlight and background shading.
func (p *Paragraph) StripAnswerFormatting() {
	p.raw = stripUnderline.ReplaceAllString(p.raw, "")
	p.raw = stripColor.ReplaceAllString(p.raw, "")
	p.raw = stripHighlight.ReplaceAllString(p.raw, "")
	p.raw = stripShading.ReplaceAllString(p.raw, "")
}

// BoldAt forces bold on the run containing text position pos. Used when a
// question label is relabeled to keep the numeral emphasized.
func (p *Paragraph) BoldAt(pos int) {
	frags := scanFragments(p.raw)
	off := 0
	target := -1
	for _, f := range frags {
		flen := f.ce - f.cs
		if pos < off+flen || (pos == off+flen && flen > 0) {
			target = f.cs
			break
		}
		off += flen
	}
	if target < 0 {
		return
	}
	for _, m := range runOpenRe.FindAllStringIndex(p.raw, -1) {
		close := strings.Index(p.raw[m[1]:], "</w:r>")
		if close < 0 {
			continue
		}
		runEnd := m[1] + close
		if target < m[1] || target >= runEnd {
			continue
		}
		run := p.raw[m[1]:runEnd]
		if i := strings.Index(run, "<w:rPr>"); i >= 0 {
			if !strings.Contains(run[:strings.Index(run, "</w:rPr>")+1], "<w:b") {
				at := m[1] + i + len("<w:rPr>")
				p.raw = p.raw[:at] + "<w:b/>" + p.raw[at:]
			}
		} else {
			p.raw = p.raw[:m[1]] + "<w:rPr><w:b/></w:rPr>" + p.raw[m[1]:]
		}
		return
	}
}

// SetAlignment forces paragraph justification ("right", "center", ...).
func (p *Paragraph) SetAlignment(val string) {
	if jcVal.MatchString(p.raw) {
		p.raw = jcVal.ReplaceAllString(p.raw, "${1}"+val+"${2}")
		return
	}
	if i := strings.Index(p.raw, "</w:pPr>"); i >= 0 {
		p.raw = p.raw[:i] + `<w:jc w:val="` + val + `"/>` + p.raw[i:]
		return
	}
	open := paraOpen.FindString(p.raw)
	if open == "" {
		return
	}
	p.raw = open + `<w:pPr><w:jc w:val="` + val + `"/></w:pPr>` + p.raw[len(open):]
}

// inner returns the paragraph content after the properties block, i.e. the
// runs, used when merging option paragraphs into tabbed rows.
func (p *Paragraph) inner() string {
	open := paraOpen.FindString(p.raw)
	if open == "" {
		return ""
	}
	body := p.raw[len(open):]
	body = strings.TrimSuffix(body, "</w:p>")
	if i := strings.Index(body, "</w:pPr>"); i >= 0 {
		body = body[i+len("</w:pPr>"):]
	}
	return body
}

// ContainsRichContent reports embedded math or drawings, which weigh against
// squeezing the paragraph into a shared line.
func (p *Paragraph) ContainsRichContent() bool {
	return strings.Contains(p.raw, "<m:oMath") ||
		strings.Contains(p.raw, "<w:drawing") ||
		strings.Contains(p.raw, "<w:pict")
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
