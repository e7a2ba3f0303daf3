// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/gl-audit/cmd/common"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/internal/batch"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/validation"

	"github.com/spf13/cobra"
)

// Flags are the batch-specific options.
type Flags struct {
	Workers   int
	ExportCSV bool
}

var flags Flags

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every workbook in a directory",
	Long: `Analyze every XLSX, XLS and CSV file directly inside the input directory
and write one report per file into the output directory. Files are processed
concurrently; a file that fails does not stop the others.

Example:
  gl-audit batch -i ledgers/ -o reports/ -f yaml --workers 4 --csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Files analyzed concurrently (default: number of CPUs)")
	Cmd.Flags().BoolVar(&flags.ExportCSV, "csv", false, "Also export each sheet's canonical transactions as CSV")
}

// Run processes the directory shared.Input into shared.Output and prints a
// one-line summary per file. It fails when any file failed.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if err := validation.IsValidInputDir(shared.Input); err != nil {
		return err
	}
	if shared.Output == "" {
		return fmt.Errorf("output directory must be specified")
	}

	opts, err := c.AnalysisOptions()
	if err != nil {
		return err
	}
	opts.Sheets = shared.Sheets
	processor := c.NewProcessor(c.NewAnalyzer(opts), batch.WithWorkers(f.Workers), batch.WithCSVExport(f.ExportCSV))

	results, ledger, err := processor.ProcessDirectory(ctx, shared.Input, shared.Output, c.NewUsageLedger())
	if err != nil {
		return err
	}
	common.LogUsage(c.GetLogger(), ledger)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", r.Input, r.Err)
			continue
		}
		fmt.Fprintf(w, "OK   %s -> %s (%d/%d sheets, %d transactions, %d duplicates, %s)\n",
			r.Input, r.Output, r.Analyzed, r.Sheets, r.Transactions, r.Duplicates, r.DateRange)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
