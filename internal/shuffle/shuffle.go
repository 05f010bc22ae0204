// Package shuffle permutes option and question order while preserving
// answer identity, balances correct-letter distribution over a batch, and
// compacts short 4-option layouts.
package shuffle

import (
	"fmt"
	"math/rand"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/pattern"
)

// Engine wraps a private random source so batches can be reproduced from a
// seed in tests.
type Engine struct {
	rng *rand.Rand
}

func New(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// fisherYates swaps elements i and a uniform j in [0,i], for i from n-1 down
// to 1, which yields a uniform random permutation.
func (e *Engine) fisherYates(n int, swap func(i, j int)) {
	for i := n - 1; i >= 1; i-- {
		swap(i, e.rng.Intn(i+1))
	}
}

// Options permutes a question's option nodes in place. For MCQ with a
// target letter and an underlined (correct) option present, the correct node
// is pinned to the target position and only the distractors are shuffled;
// otherwise the whole pool is shuffled. Every option is then relabeled to
// its new position: MCQ always gets "." as separator, true/false keeps the
// separator found in the source.
func (e *Engine) Options(q *exam.QuestionBlock, target byte) {
	opts := exam.OptionNodes(q.Nodes)
	if len(opts) < 2 {
		return
	}
	sep := opts[0].Opt.Separator

	pool := make([]*docx.BlockNode, len(opts))
	for i, o := range opts {
		pool[i] = q.Nodes[o.Index]
	}

	pinned := -1
	if q.Type == exam.TypeMCQ && target != 0 {
		for i, n := range pool {
			if n.Para != nil && n.Para.Underlined() {
				pinned = i
				break
			}
		}
	}

	var order []*docx.BlockNode
	if pinned >= 0 {
		rest := make([]*docx.BlockNode, 0, len(pool)-1)
		for i, n := range pool {
			if i != pinned {
				rest = append(rest, n)
			}
		}
		e.fisherYates(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		pos := int(target-'A') % len(pool)
		order = make([]*docx.BlockNode, 0, len(pool))
		ri := 0
		for i := 0; i < len(pool); i++ {
			if i == pos {
				order = append(order, pool[pinned])
				continue
			}
			order = append(order, rest[ri])
			ri++
		}
	} else {
		e.fisherYates(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		order = pool
	}

	for i, o := range opts {
		q.Nodes[o.Index] = order[i]
	}
	for i, o := range opts {
		relabelOption(q.Nodes[o.Index], i, q.Type, sep)
	}
}

func relabelOption(n *docx.BlockNode, pos int, typ exam.QuestionType, sep byte) {
	if n.Para == nil {
		return
	}
	opt, ok := pattern.MatchOption(n.Text(), n.FirstFragment())
	if !ok {
		return
	}
	letter := byte('A' + pos)
	if typ == exam.TypeTrueFalse {
		letter = byte('a' + pos)
	} else {
		sep = '.'
	}
	if opt.Loose {
		// separator lives in an adjacent fragment; swap only the letter
		n.Para.ReplaceRange(opt.Start, opt.End, string(letter))
		return
	}
	n.Para.ReplaceRange(opt.Start, opt.End, fmt.Sprintf("%c%c ", letter, sep))
}

// Blocks shuffles a slice of questions in place.
func (e *Engine) Blocks(qs []*exam.QuestionBlock) {
	e.fisherYates(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}

var keyLetters = []byte{'A', 'B', 'C', 'D'}

// BalancedKeys produces n target letters where each of A-D appears
// floor(n/4) times, the remainder is a random sample of distinct letters,
// and the whole list is shuffled.
func (e *Engine) BalancedKeys(n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, 0, n)
	for i := 0; i < n/4; i++ {
		out = append(out, keyLetters...)
	}
	rest := []byte{'A', 'B', 'C', 'D'}
	e.fisherYates(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	out = append(out, rest[:n%4]...)
	e.fisherYates(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
