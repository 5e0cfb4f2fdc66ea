package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaExportPath string
	anaJSON       bool
	anaSampleRows int
	anaParse      parseFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Validate, clean and summarize a sensor log (CSV/TSV/XLSX)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := anaParse.options()
		if err != nil {
			return err
		}
		log := newLogger()
		start := time.Now()
		tbl, sum, err := analysis.RunFile(path, opt)
		if err != nil {
			return err
		}
		log.Debug("pipeline finished",
			slog.String("file", filepath.Base(path)),
			slog.Int("rows", tbl.Len()),
			slog.Int("coercion_warnings", len(tbl.Warnings())),
			slog.Duration("took", time.Since(start)),
		)

		if anaExportPath != "" {
			if err := writeExport(anaExportPath, tbl); err != nil {
				return err
			}
			fmt.Printf("✓ Exported cleaned data to %s\n", anaExportPath)
		}

		if anaJSON {
			b, err := utils.PrettyJSON(sum)
			if err != nil {
				return err
			}
			if anaOutputPath != "" {
				if err := utils.SafeWriteFile(anaOutputPath, b); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
				fmt.Printf("✓ Wrote summary to %s\n", anaOutputPath)
				return nil
			}
			fmt.Println(string(b))
			return nil
		}

		md := analysis.NewReport(filepath.Base(path), tbl, sum, anaSampleRows).Markdown()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write analysis: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown, or JSON with --json)")
	analyzeCmd.Flags().StringVar(&anaExportPath, "export", "", "also write the cleaned table to this .csv or .xlsx path")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit the summary as JSON instead of Markdown")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	anaParse.bind(analyzeCmd.Flags())
}
