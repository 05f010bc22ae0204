package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "examix",
		Short:         "Tạo đề thi trộn từ file Word gốc",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newGenerateCmd(), newServeCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "examix:", err)
		os.Exit(1)
	}
}
