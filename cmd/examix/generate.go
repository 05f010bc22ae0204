package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/matrix"
	"github.com/examix/examix/internal/variant"
)

func newGenerateCmd() *cobra.Command {
	var (
		count       int
		startCode   int
		seed        int64
		out         string
		prefix      string
		force       bool
		keepOrder   bool
		keepOptions bool
		header      exam.HeaderConfig
	)

	cmd := &cobra.Command{
		Use:   "generate <exam.docx>",
		Short: "Trộn đề và xuất gói đề thi kèm bảng đáp án",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pkg, err := docx.Open(data)
			if err != nil {
				return err
			}

			res, err := variant.Inspect(pkg)
			if err != nil {
				return err
			}
			blocking := 0
			for _, is := range res.Issues {
				if is.Severity == exam.SeverityError {
					blocking++
					fmt.Fprintf(cmd.ErrOrStderr(), "  ! %s: %s\n", is.Label, is.Problem)
				}
			}
			if blocking > 0 && !force {
				return fmt.Errorf("%d lỗi trong đề gốc (dùng --force để bỏ qua)", blocking)
			}

			header.Enabled = header.Institution != "" || header.Title != "" || header.Subject != ""
			opts := variant.Options{
				Count:     count,
				StartCode: startCode,
				Seed:      seed,
				Mix: exam.MixOptions{
					ShuffleQuestions: !keepOrder,
					ShuffleOptions:   !keepOptions,
				},
				Header: header,
			}
			variants, m, err := variant.GenerateBatch(pkg, opts)
			if err != nil {
				return err
			}

			bundle, err := matrix.BuildBundle(prefix, variants, m, matrix.CSV{})
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			dest := filepath.Join(out, prefix+".zip")
			if err := os.WriteFile(dest, bundle, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "đã tạo %d mã đề (%d..%d) -> %s\n",
				len(variants), variants[0].Code, variants[len(variants)-1].Code, dest)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 4, "số mã đề cần tạo")
	cmd.Flags().IntVar(&startCode, "start-code", 101, "mã đề đầu tiên")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed trộn, 0 lấy theo thời gian")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "thư mục ghi kết quả")
	cmd.Flags().StringVar(&prefix, "prefix", "de", "tiền tố tên file trong gói")
	cmd.Flags().BoolVar(&force, "force", false, "vẫn trộn dù đề gốc còn lỗi")
	cmd.Flags().BoolVar(&keepOrder, "keep-order", false, "giữ nguyên thứ tự câu hỏi")
	cmd.Flags().BoolVar(&keepOptions, "keep-options", false, "giữ nguyên thứ tự phương án")
	cmd.Flags().StringVar(&header.Institution, "institution", "", "tên trường/sở in trên đề")
	cmd.Flags().StringVar(&header.Title, "title", "", "tiêu đề kỳ thi")
	cmd.Flags().StringVar(&header.Subject, "subject", "", "môn thi")
	cmd.Flags().StringVar(&header.Duration, "duration", "", "thời gian làm bài")
	cmd.Flags().StringVar(&header.Year, "year", "", "năm học")
	cmd.Flags().StringVar(&header.FooterText, "footer", "", "dòng chân trang")
	return cmd
}
