// Package variant renders independently shuffled exam instances from a
// segmented source package.
package variant

import (
	"fmt"

	"github.com/examix/examix/internal/answer"
	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/pattern"
	"github.com/examix/examix/internal/segment"
	"github.com/examix/examix/internal/shuffle"
)

const closingLine = "----------- HẾT -----------"

// Options configures one batch.
type Options struct {
	Count       int
	StartCode   int
	Mix         exam.MixOptions
	Header      exam.HeaderConfig
	Seed        int64 // 0 = time-based
	Parallelism int   // <=0 = default
}

// sectionGroup collects one section's static content and questions in
// document order.
type sectionGroup struct {
	label     string
	statics   []*exam.Segment
	questions []*exam.QuestionBlock
}

// build renders one variant into its own package clone. The clone owns its
// footer part, so builds for different codes never share mutable state.
func build(pkg *docx.Package, code int, seed int64, opts Options) (exam.Variant, error) {
	sect := pkg.CutTrailingSectPr()
	res := segment.Split(pkg.Nodes)
	eng := shuffle.New(seed)

	preamble, groups := partition(res.Segments)

	totalMCQ := 0
	for _, q := range res.Questions {
		if q.Type == exam.TypeMCQ {
			totalMCQ++
		}
	}
	var keys []byte
	if opts.Mix.ShuffleOptions {
		keys = eng.BalancedKeys(totalMCQ)
	}

	var out []*docx.BlockNode
	if opts.Header.Enabled {
		out = append(out, renderHeader(opts.Header, code)...)
	} else {
		for _, s := range preamble {
			out = append(out, s.Nodes...)
		}
	}

	v := exam.Variant{Code: code, Answers: map[int]string{}}
	global := 0
	ki := 0
	for _, g := range groups {
		for _, s := range g.statics {
			out = append(out, s.Nodes...)
		}
		fixed := pattern.IsEssaySection(g.label)
		local := 0
		for _, bucket := range buckets(g.questions, opts.Mix.ShuffleQuestions && !fixed, eng) {
			for _, q := range bucket {
				local++
				global++
				relabelQuestion(q, local)
				if opts.Mix.ShuffleOptions {
					switch q.Type {
					case exam.TypeMCQ:
						var target byte
						if ki < len(keys) {
							target = keys[ki]
							ki++
						}
						eng.Options(q, target)
					case exam.TypeTrueFalse:
						eng.Options(q, 0)
					}
				}
				// resolve from pre-strip content, then flatten the layout
				// and scrub everything answer-revealing
				v.Answers[global] = answer.Resolve(q)
				shuffle.Reformat(q)
				stripAnswers(q)
				out = append(out, q.Nodes...)
			}
		}
	}

	out = append(out, docx.BuildParagraph(closingLine, docx.TextStyle{Bold: true, Alignment: "center"}))

	if sect != nil {
		if opts.Header.Enabled {
			relID, err := pkg.EnsureFooter(opts.Header.FooterText, code)
			if err != nil {
				return exam.Variant{}, err
			}
			docx.SetFooterReference(sect, relID)
		}
		out = append(out, sect)
	}

	substituteCode(out, code)

	pkg.Nodes = out
	doc, err := pkg.Save()
	if err != nil {
		return exam.Variant{}, err
	}
	v.Doc = doc
	return v, nil
}

// partition splits segments into the leading preamble and ordered section
// groups. A group is opened by the first segment carrying its label, header
// or question alike.
func partition(segs []*exam.Segment) ([]*exam.Segment, []*sectionGroup) {
	var preamble []*exam.Segment
	var groups []*sectionGroup
	index := map[string]*sectionGroup{}
	started := false

	group := func(label string) *sectionGroup {
		if g, ok := index[label]; ok {
			return g
		}
		g := &sectionGroup{label: label}
		index[label] = g
		groups = append(groups, g)
		return g
	}

	for _, s := range segs {
		if !started {
			if s.Kind == exam.SegmentStatic && !segment.IsHeaderSegment(s) {
				preamble = append(preamble, s)
				continue
			}
			started = true
		}
		if s.Kind == exam.SegmentQuestion {
			group(s.Section).questions = append(group(s.Section).questions, s.Question)
			continue
		}
		group(s.Section).statics = append(group(s.Section).statics, s)
	}
	return preamble, groups
}

// buckets partitions a section's questions by type in the fixed render order,
// shuffling each type bucket independently when enabled.
func buckets(qs []*exam.QuestionBlock, mix bool, eng *shuffle.Engine) [][]*exam.QuestionBlock {
	byType := map[exam.QuestionType][]*exam.QuestionBlock{}
	for _, q := range qs {
		byType[q.Type] = append(byType[q.Type], q)
	}
	var out [][]*exam.QuestionBlock
	for _, t := range exam.RenderOrder {
		b := byType[t]
		if len(b) == 0 {
			continue
		}
		if mix {
			eng.Blocks(b)
		}
		out = append(out, b)
	}
	return out
}

func relabelQuestion(q *exam.QuestionBlock, local int) {
	if len(q.Nodes) == 0 || q.Nodes[0].Para == nil {
		return
	}
	p := q.Nodes[0].Para
	s, e, ok := pattern.QuestionLabelSpan(p.Text())
	if !ok {
		return
	}
	p.ReplaceRange(s, e, fmt.Sprintf("Câu %d.", local))
	p.BoldAt(s)
}

func stripAnswers(q *exam.QuestionBlock) {
	for _, n := range q.Nodes {
		if n.Para == nil {
			continue
		}
		for {
			s, e, ok := pattern.KeyTagSpan(n.Para.Text())
			if !ok {
				break
			}
			n.Para.DeleteRange(s, e)
		}
		n.Para.StripAnswerFormatting()
	}
}

func substituteCode(nodes []*docx.BlockNode, code int) {
	cs := fmt.Sprintf("%d", code)
	for _, n := range nodes {
		if n.Para == nil {
			continue
		}
		text := n.Para.Text()
		if !pattern.MentionsCode(text) {
			continue
		}
		reps := pattern.CodeReplacements(text, cs)
		for i := len(reps) - 1; i >= 0; i-- {
			n.Para.ReplaceRange(reps[i].Start, reps[i].End, reps[i].With)
		}
		n.Para.SetAlignment("right")
	}
}

func renderHeader(cfg exam.HeaderConfig, code int) []*docx.BlockNode {
	center := docx.TextStyle{Alignment: "center"}
	centerBold := docx.TextStyle{Alignment: "center", Bold: true}

	var out []*docx.BlockNode
	if cfg.Institution != "" {
		out = append(out, docx.BuildParagraph(cfg.Institution, centerBold))
	}
	if cfg.Title != "" {
		title := cfg.Title
		if cfg.Year != "" {
			title += " " + cfg.Year
		}
		out = append(out, docx.BuildParagraph(title, centerBold))
	}
	line := ""
	if cfg.Subject != "" {
		line = "Môn: " + cfg.Subject
	}
	if cfg.Duration != "" {
		if line != "" {
			line += " - "
		}
		line += "Thời gian làm bài: " + cfg.Duration
	}
	if line != "" {
		out = append(out, docx.BuildParagraph(line, center))
	}
	out = append(out, docx.BuildParagraph(fmt.Sprintf("Mã đề thi: %d", code),
		docx.TextStyle{Alignment: "right", Bold: true}))
	return out
}
