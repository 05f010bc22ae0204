package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examix/examix/internal/docx"
	"github.com/examix/examix/internal/exam"
	"github.com/examix/examix/internal/variant"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <exam.docx>",
		Short: "Kiểm tra cấu trúc đề gốc và liệt kê lỗi",
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

			valid := 0
			for _, q := range res.Questions {
				if q.Valid {
					valid++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d câu hỏi, %d hợp lệ\n", len(res.Questions), valid)
			for _, is := range res.Issues {
				marker := "!"
				if is.Severity == exam.SeverityWarning {
					marker = "~"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s: %s\n", marker, is.Label, is.Problem)
				if is.Suggestion != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    -> %s\n", is.Suggestion)
				}
			}
			errs := 0
			for _, is := range res.Issues {
				if is.Severity == exam.SeverityError {
					errs++
				}
			}
			if errs > 0 {
				return fmt.Errorf("%d lỗi cần sửa trước khi trộn đề", errs)
			}
			return nil
		},
	}
}
