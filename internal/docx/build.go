package docx

import (
	"fmt"
	"strings"
)

// TextStyle controls the builders below. Zero value renders plain left text.
type TextStyle struct {
	Bold      bool
	Alignment string // "", "center", "right"
	SizeHalf  int    // font size in half-points, 0 = inherit
}

// BuildParagraph constructs a fresh paragraph node carrying one text run.
func BuildParagraph(text string, st TextStyle) *BlockNode {
	var ppr, rpr string
	if st.Alignment != "" {
		ppr = `<w:pPr><w:jc w:val="` + st.Alignment + `"/></w:pPr>`
	}
	var props []string
	if st.Bold {
		props = append(props, "<w:b/>")
	}
	if st.SizeHalf > 0 {
		props = append(props, fmt.Sprintf(`<w:sz w:val="%d"/>`, st.SizeHalf))
	}
	if len(props) > 0 {
		rpr = "<w:rPr>" + strings.Join(props, "") + "</w:rPr>"
	}
	raw := "<w:p>" + ppr +
		"<w:r>" + rpr + `<w:t xml:space="preserve">` + escapeXML(text) + "</w:t></w:r></w:p>"
	return NewParagraphNode(raw)
}

// MergeTabbed joins several paragraphs' runs into a single paragraph whose
// parts are separated by tab runs at the given stop positions (twips).
func MergeTabbed(paras []*Paragraph, stops []int) *BlockNode {
	var tabs strings.Builder
	for _, pos := range stops {
		fmt.Fprintf(&tabs, `<w:tab w:val="left" w:pos="%d"/>`, pos)
	}
	var b strings.Builder
	b.WriteString("<w:p><w:pPr><w:tabs>")
	b.WriteString(tabs.String())
	b.WriteString("</w:tabs></w:pPr>")
	for i, p := range paras {
		if i > 0 {
			b.WriteString("<w:r><w:tab/></w:r>")
		}
		b.WriteString(p.inner())
	}
	b.WriteString("</w:p>")
	return NewParagraphNode(b.String())
}
