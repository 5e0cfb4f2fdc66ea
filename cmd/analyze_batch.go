package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abOutDir     string
	abExport     string
	abSampleRows int
	abQuiet      bool
	abParse      parseFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple sensor logs with progress, continuing past failures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := abParse.options()
		if err != nil {
			return err
		}
		if abOutDir != "" {
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return err
			}
		}
		switch abExport {
		case "", "csv", "xlsx":
		default:
			return fmt.Errorf("unsupported --export: %s (use csv|xlsx)", abExport)
		}

		total := len(files)
		var failed []string
		written := map[string]int{}
		for i, path := range files {
			base := filepath.Base(path)
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, base)
			}
			tbl, sum, err := analysis.RunFile(path, opt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", base, err)
				failed = append(failed, base)
				continue
			}
			md := analysis.NewReport(base, tbl, sum, abSampleRows).Markdown()
			if abOutDir == "" {
				if !abQuiet {
					fmt.Println(md)
				}
				continue
			}

			// Same basename from different directories gets a numeric suffix.
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			written[stem]++
			if n := written[stem]; n > 1 {
				stem = fmt.Sprintf("%s__%d", stem, n)
			}
			outFile := filepath.Join(abOutDir, stem+".summary.md")
			if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if abExport != "" {
				if err := writeExport(filepath.Join(abOutDir, stem+"_cleaned."+abExport), tbl); err != nil {
					return err
				}
			}
			if !abQuiet {
				fmt.Printf("✓ Wrote %s (tier %s)\n", filepath.Base(outFile), sum.Tier)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failed), total, strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abOutDir, "out-dir", "o", "", "directory for <name>.summary.md reports (stdout if omitted)")
	analyzeBatchCmd.Flags().StringVar(&abExport, "export", "", "with --out-dir, also export each cleaned table: csv|xlsx")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abParse.bind(analyzeBatchCmd.Flags())
}
