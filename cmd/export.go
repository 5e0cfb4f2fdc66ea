package cmd

import (
	"fmt"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	expOutputPath string
	expParse      parseFlags
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Clean a sensor log and write it as CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if expOutputPath == "" {
			return fmt.Errorf("--output is required (.csv or .xlsx)")
		}
		opt, err := expParse.options()
		if err != nil {
			return err
		}
		tbl, _, err := analysis.RunFile(args[0], opt)
		if err != nil {
			return err
		}
		if err := writeExport(expOutputPath, tbl); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d rows to %s\n", tbl.Len(), expOutputPath)
		if n := len(tbl.Warnings()); n > 0 {
			fmt.Printf("⚠ %d values could not be parsed and were imputed\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "destination .csv or .xlsx path")
	expParse.bind(exportCmd.Flags())
}
