// Package matrix aggregates all variants' resolved answers into one tabular
// artifact and bundles it with the variant documents.
package matrix

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/examix/examix/internal/exam"
)

// TableWriter serializes a header row plus data rows. The core depends on
// this port, not on any concrete spreadsheet library.
type TableWriter interface {
	Write(header []string, rows [][]string) ([]byte, error)
}

// CSV writes UTF-8 CSV with a BOM so spreadsheet tools pick up the encoding.
type CSV struct{}

func (CSV) Write(header []string, rows [][]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\uFEFF") // BOM so Excel opens the file as UTF-8
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Table lays the matrix out as rows 1..N with one column per variant code,
// columns sorted ascending. A variant that produced no answer for a row
// leaves the cell empty.
func Table(m exam.AnswerMatrix) (header []string, rows [][]string) {
	codeSet := map[int]bool{}
	total := 0
	for idx, byCode := range m {
		if idx > total {
			total = idx
		}
		for c := range byCode {
			codeSet[c] = true
		}
	}
	codes := make([]int, 0, len(codeSet))
	for c := range codeSet {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	header = []string{"Câu"}
	for _, c := range codes {
		header = append(header, fmt.Sprintf("Mã %d", c))
	}
	for i := 1; i <= total; i++ {
		row := []string{fmt.Sprintf("%d", i)}
		for _, c := range codes {
			row = append(row, m[i][c])
		}
		rows = append(rows, row)
	}
	return header, rows
}

// BuildBundle packs every variant document plus the answer table into one
// zip artifact. Documents are named <prefix>_<code>.docx.
func BuildBundle(prefix string, variants []exam.Variant, m exam.AnswerMatrix, tw TableWriter) ([]byte, error) {
	if prefix == "" {
		prefix = "de"
	}
	header, rows := Table(m)
	table, err := tw.Write(header, rows)
	if err != nil {
		return nil, fmt.Errorf("answer table: %w", err)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, v := range variants {
		w, err := zw.Create(fmt.Sprintf("%s_%d.docx", prefix, v.Code))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(v.Doc); err != nil {
			return nil, err
		}
	}
	w, err := zw.Create(prefix + "_dap_an.csv")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(table); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
