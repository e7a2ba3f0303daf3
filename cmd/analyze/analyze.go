// Package analyze implements the analyze command.
package analyze

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/gl-audit/cmd/common"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/fileutils"
	"fjacquet/gl-audit/internal/logging"

	"github.com/spf13/cobra"
)

// Flags are the analyze-specific options.
type Flags struct {
	CSVDir              string
	IncludeTransactions bool
}

var flags Flags

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis of a general-ledger workbook",
	Long: `Analyze every sheet of a general-ledger workbook: header detection, column
resolution, account relationships, anomaly flags, the Benford first-digit test,
a reviewable sample and a token-bounded summary. With --ai the summary is sent
to the configured model for review.

Example:
  gl-audit analyze -i ledger.xlsx -o report.json
  gl-audit analyze -i ledger.xlsx -f text --sheet 보통예금 --csv exports/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&flags.CSVDir, "csv", "", "Also export each sheet's canonical transactions as CSV into this directory")
	Cmd.Flags().BoolVar(&flags.IncludeTransactions, "include-transactions", false, "Embed the canonical transactions in the report")
}

// Run analyzes shared.Input and writes the report in the configured format.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	rep, err := common.AnalyzeFile(ctx, c, common.Request{
		Input:  shared.Input,
		Sheets: shared.Sheets,
		Adjust: func(o *analysis.Options) { o.IncludeTransactions = f.IncludeTransactions },
	})
	if err != nil {
		return err
	}

	if f.CSVDir != "" {
		if err := exportCSV(c, rep, shared.Input, f.CSVDir); err != nil {
			return err
		}
	}

	data, err := c.GetReportGenerator().GenerateReport(rep, c.GetConfig().Output.Format)
	if err != nil {
		return err
	}
	return common.WriteOutput(w, shared.Output, data, c.GetLogger())
}

// exportCSV writes one CSV per analyzed sheet named <input>_<sheet>.csv.
func exportCSV(c *container.Container, rep *analysis.Report, input, dir string) error {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	for _, s := range rep.Sheets {
		parsed := s.Parsed()
		if parsed == nil || len(parsed.Transactions) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", base, fileutils.SafeName(s.Sheet)))
		if err := c.GetParser().WriteToCSV(parsed.Transactions, path); err != nil {
			return fmt.Errorf("failed to export sheet %s: %w", s.Sheet, err)
		}
		c.GetLogger().Debug("Exported sheet", logging.F(logging.FieldSheet, s.Sheet), logging.F(logging.FieldOutputFile, path))
	}
	return nil
}
