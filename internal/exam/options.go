package exam

import (
	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/pattern"
)

// OptionNode is one node of a question that carries an option marker.
type OptionNode struct {
	Index int // position in the question's node list
	Opt   pattern.Option
}

// OptionNodes scans a question's nodes in document order and returns those
// that open with an option marker, strict or loose.
func OptionNodes(nodes []*docx.BlockNode) []OptionNode {
	var out []OptionNode
	for i, n := range nodes {
		if n.Para == nil {
			continue
		}
		if opt, ok := pattern.MatchOption(n.Text(), n.FirstFragment()); ok {
			out = append(out, OptionNode{Index: i, Opt: opt})
		}
	}
	return out
}
