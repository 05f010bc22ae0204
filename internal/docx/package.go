// Package docx is a heuristic reader/writer for word-processing packages.
// It models the main content part as an arena of block nodes whose bytes are
// kept verbatim; mutations are targeted string surgery on individual nodes,
// so untouched content round-trips byte-identical.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
)

const (
	DocumentPart     = "word/document.xml"
	DocumentRelsPart = "word/_rels/document.xml.rels"
	ContentTypesPart = "[Content_Types].xml"
)

// FormatError is fatal for the current document: a required part or the body
// element is missing.
type FormatError struct{ Part string }

func (e *FormatError) Error() string {
	return fmt.Sprintf("document format: missing %s", e.Part)
}

type part struct {
	name string
	data []byte
}

// Package holds a parsed document: all zip parts verbatim plus the block-node
// arena parsed out of the main content part.
type Package struct {
	parts []part
	index map[string]int

	// document.xml split around the body children
	pre  string
	post string

	// Nodes are the ordered top-level body children.
	Nodes []*BlockNode

	// Warnings collects non-fatal parse recoveries.
	Warnings []string
}

var bodyOpen = regexp.MustCompile(`<w:body(?:\s[^>]*)?>`)

const bodyClose = "</w:body>"

// Open parses a package from its zip bytes.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	p := &Package{index: map[string]int{}}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		p.index[f.Name] = len(p.parts)
		p.parts = append(p.parts, part{name: f.Name, data: b})
	}

	doc, ok := p.Part(DocumentPart)
	if !ok {
		return nil, &FormatError{Part: DocumentPart}
	}
	open := bodyOpen.FindIndex(doc)
	if open == nil {
		return nil, &FormatError{Part: "w:body"}
	}
	close := bytes.LastIndex(doc, []byte(bodyClose))
	if close < 0 || close < open[1] {
		return nil, &FormatError{Part: "w:body"}
	}
	p.pre = string(doc[:open[1]])
	p.post = string(doc[close:])

	nodes, warns := splitBlocks(doc[open[1]:close])
	p.Nodes = nodes
	p.Warnings = warns
	return p, nil
}

// Part returns a part's bytes by path.
func (p *Package) Part(name string) ([]byte, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.parts[i].data, true
}

// SetPart creates or replaces a part.
func (p *Package) SetPart(name string, data []byte) {
	if i, ok := p.index[name]; ok {
		p.parts[i].data = data
		return
	}
	p.index[name] = len(p.parts)
	p.parts = append(p.parts, part{name: name, data: data})
}

// Save serializes the package back to zip bytes. The main content part is
// rebuilt from the node arena; every other part is written verbatim.
func (p *Package) Save() ([]byte, error) {
	var doc bytes.Buffer
	doc.WriteString(p.pre)
	for _, n := range p.Nodes {
		doc.Write(n.XML())
	}
	doc.WriteString(p.post)

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, pt := range p.parts {
		w, err := zw.Create(pt.name)
		if err != nil {
			return nil, fmt.Errorf("write part %s: %w", pt.name, err)
		}
		data := pt.data
		if pt.name == DocumentPart {
			data = doc.Bytes()
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone produces an independent copy of the package. Variants each render
// into their own clone so footer writes never leak across a batch.
func (p *Package) Clone() (*Package, error) {
	b, err := p.Save()
	if err != nil {
		return nil, err
	}
	return Open(b)
}

// CutTrailingSectPr removes a trailing page-setup node from the arena and
// returns it, or nil when the body does not end with one.
func (p *Package) CutTrailingSectPr() *BlockNode {
	if len(p.Nodes) == 0 {
		return nil
	}
	last := p.Nodes[len(p.Nodes)-1]
	if last.Kind != KindSectPr {
		return nil
	}
	p.Nodes = p.Nodes[:len(p.Nodes)-1]
	return last
}
