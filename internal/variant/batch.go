package variant

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/segment"
)

const defaultParallelism = 4

// Inspect segments and classifies a package's questions without mutating it.
func Inspect(src *docx.Package) (segment.Result, error) {
	clone, err := src.Clone()
	if err != nil {
		return segment.Result{}, err
	}
	clone.CutTrailingSectPr()
	return segment.Split(clone.Nodes), nil
}

// GenerateBatch renders opts.Count variants with codes startCode, startCode+1,
// ... Each variant works on its own package clone, so the builds run in
// parallel; results come back ordered by code.
func GenerateBatch(src *docx.Package, opts Options) ([]exam.Variant, exam.AnswerMatrix, error) {
	if opts.Count < 1 {
		return nil, nil, fmt.Errorf("variant count must be >= 1, got %d", opts.Count)
	}
	if opts.StartCode <= 0 {
		opts.StartCode = 101
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	par := opts.Parallelism
	if par <= 0 {
		par = defaultParallelism
	}

	variants := make([]exam.Variant, opts.Count)
	var g errgroup.Group
	g.SetLimit(par)
	for i := 0; i < opts.Count; i++ {
		g.Go(func() error {
			clone, err := src.Clone()
			if err != nil {
				return err
			}
			code := opts.StartCode + i
			v, err := build(clone, code, seed+int64(i), opts)
			if err != nil {
				return fmt.Errorf("variant %d: %w", code, err)
			}
			variants[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return variants, exam.Matrix(variants), nil
}
