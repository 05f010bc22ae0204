package docx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	footerPart        = "word/footer1.xml"
	footerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	footerRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"

	wordMLNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var (
	relID     = regexp.MustCompile(`Id="rId(\d+)"`)
	footerRel = regexp.MustCompile(`<Relationship\s[^>]*Target="footer1\.xml"[^>]*/>`)
	footerRef = regexp.MustCompile(`<w:footerReference\b[^>]*/>`)
	sectOpen  = regexp.MustCompile(`^<w:sectPr(?:\s[^>]*)?>`)
)

// EnsureFooter registers the footer part in the relationship table and the
// content-type registry (once, idempotently) and writes a fresh footer part
// carrying text, the variant code and page-count fields. It returns the
// relationship id to reference from the page setup.
func (p *Package) EnsureFooter(text string, code int) (string, error) {
	rels, ok := p.Part(DocumentRelsPart)
	if !ok {
		rels = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
	}
	relsStr := string(rels)

	var id string
	if m := footerRel.FindString(relsStr); m != "" {
		if im := regexp.MustCompile(`Id="([^"]+)"`).FindStringSubmatch(m); im != nil {
			id = im[1]
		}
	}
	if id == "" {
		maxID := 0
		for _, m := range relID.FindAllStringSubmatch(relsStr, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
				maxID = n
			}
		}
		id = fmt.Sprintf("rId%d", maxID+1)
		rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="footer1.xml"/>`, id, footerRelType)
		i := strings.LastIndex(relsStr, "</Relationships>")
		if i < 0 {
			return "", fmt.Errorf("malformed %s", DocumentRelsPart)
		}
		relsStr = relsStr[:i] + rel + relsStr[i:]
		p.SetPart(DocumentRelsPart, []byte(relsStr))
	}

	if ct, ok := p.Part(ContentTypesPart); ok {
		ctStr := string(ct)
		if !strings.Contains(ctStr, `PartName="/word/footer1.xml"`) {
			ov := fmt.Sprintf(`<Override PartName="/word/footer1.xml" ContentType="%s"/>`, footerContentType)
			i := strings.LastIndex(ctStr, "</Types>")
			if i < 0 {
				return "", fmt.Errorf("malformed %s", ContentTypesPart)
			}
			p.SetPart(ContentTypesPart, []byte(ctStr[:i]+ov+ctStr[i:]))
		}
	}

	p.SetPart(footerPart, []byte(footerXML(text, code)))
	return id, nil
}

func footerXML(text string, code int) string {
	label := escapeXML(strings.TrimSpace(text))
	if label != "" {
		label += " - "
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:ftr xmlns:w="` + wordMLNS + `">` +
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		fmt.Sprintf(`<w:r><w:t xml:space="preserve">%sMã đề %d - Trang </w:t></w:r>`, label, code) +
		pageField("PAGE") +
		`<w:r><w:t>/</w:t></w:r>` +
		pageField("NUMPAGES") +
		`</w:p></w:ftr>`
}

func pageField(instr string) string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve"> ` + instr + ` </w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}

// SetFooterReference rewrites a page-setup node to point at the footer
// relationship, removing any pre-existing footer reference first. All other
// page-setup properties are untouched.
func SetFooterReference(sectPr *BlockNode, relID string) {
	if sectPr == nil || sectPr.Kind != KindSectPr {
		return
	}
	raw := string(sectPr.raw)
	raw = footerRef.ReplaceAllString(raw, "")
	open := sectOpen.FindString(raw)
	if open == "" {
		return
	}
	ref := `<w:footerReference w:type="default" r:id="` + relID + `"/>`
	sectPr.raw = []byte(open + ref + raw[len(open):])
}
