package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

type NodeKind int

const (
	KindParagraph NodeKind = iota
	KindTable
	KindSectPr
	KindOther
)

// BlockNode is one top-level body child. Paragraphs carry a Paragraph model
// for surgery; tables, page setup and anything unrecognized keep their raw
// bytes and re-emit verbatim.
type BlockNode struct {
	Kind NodeKind
	Para *Paragraph // non-nil iff Kind == KindParagraph
	raw  []byte     // verbatim slice for non-paragraph kinds
}

// XML serializes the node.
func (n *BlockNode) XML() []byte {
	if n.Para != nil {
		return []byte(n.Para.Raw())
	}
	return n.raw
}

// Text is the node's plain-text projection. Non-paragraph nodes project to
// the concatenation of their text fragments.
func (n *BlockNode) Text() string {
	if n.Para != nil {
		return n.Para.Text()
	}
	return concatFragments(string(n.raw))
}

// FirstFragment returns the text of the node's first text fragment, used for
// loose option-marker matching.
func (n *BlockNode) FirstFragment() string {
	if n.Para != nil {
		return n.Para.FirstFragment()
	}
	return ""
}

// Clone deep-copies the node.
func (n *BlockNode) Clone() *BlockNode {
	c := &BlockNode{Kind: n.Kind}
	if n.Para != nil {
		c.Para = &Paragraph{raw: n.Para.raw}
	}
	if n.raw != nil {
		c.raw = bytes.Clone(n.raw)
	}
	return c
}

// NewParagraphNode wraps freshly built paragraph XML.
func NewParagraphNode(raw string) *BlockNode {
	return &BlockNode{Kind: KindParagraph, Para: &Paragraph{raw: raw}}
}

// splitBlocks cuts body-inner bytes into top-level elements. Offsets come
// from the raw tokenizer so each slice is byte-faithful. A malformed tail is
// recovered as a single opaque node rather than failing the document.
func splitBlocks(inner []byte) ([]*BlockNode, []string) {
	var nodes []*BlockNode
	var warns []string

	d := xml.NewDecoder(bytes.NewReader(inner))
	d.Strict = false

	depth := 0
	start := int64(0)
	var top xml.Name
	prev := int64(0)

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			warns = append(warns, fmt.Sprintf("recovered malformed body content at offset %d: %v", prev, err))
			if int(prev) < len(inner) {
				nodes = append(nodes, &BlockNode{Kind: KindOther, raw: inner[prev:]})
			}
			return nodes, warns
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				start = prev
				top = t.Name
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				end := d.InputOffset()
				raw := inner[start:end]
				nodes = append(nodes, newBlock(top, raw))
			}
		default:
			// stray chardata / comments between blocks stay attached to the
			// following node's gap; whitespace-only, safe to drop
		}
		prev = d.InputOffset()
	}
	return nodes, warns
}

func newBlock(name xml.Name, raw []byte) *BlockNode {
	switch {
	case name.Space == "w" && name.Local == "p":
		return &BlockNode{Kind: KindParagraph, Para: &Paragraph{raw: string(raw)}}
	case name.Space == "w" && name.Local == "tbl":
		return &BlockNode{Kind: KindTable, raw: raw}
	case name.Space == "w" && name.Local == "sectPr":
		return &BlockNode{Kind: KindSectPr, raw: raw}
	default:
		return &BlockNode{Kind: KindOther, raw: raw}
	}
}
