// Package benford implements the benford command.
package benford

import (
	"context"
	"io"

	"fjacquet/gl-audit/cmd/common"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/report"
	"fjacquet/gl-audit/internal/stats"

	"github.com/spf13/cobra"
)

// Flags are the benford-specific options.
type Flags struct {
	AmountSource string
	MinSample    int
}

var flags Flags

// Cmd represents the benford command
var Cmd = &cobra.Command{
	Use:   "benford",
	Short: "Run the Benford first-digit test on each sheet",
	Long: `Compare the first-digit distribution of each sheet's amounts with Benford's
law and report the chi-square statistic, the mean absolute deviation and a
conformity verdict. Results on fewer amounts than --min-sample are marked low
confidence.

Example:
  gl-audit benford -i ledger.xlsx -f text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&flags.AmountSource, "amount", "", "Amount tested: gross, debit, credit or side (default from config)")
	Cmd.Flags().IntVar(&flags.MinSample, "min-sample", 0, "Amounts needed for a confident result (default from config)")
}

// SheetBenford is the Benford result of one sheet.
type SheetBenford struct {
	Sheet   string               `json:"sheet" yaml:"sheet"`
	Benford *stats.BenfordReport `json:"benford" yaml:"benford"`
}

// Run analyzes shared.Input and writes its Benford results.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	req := common.Request{
		Input:  shared.Input,
		Sheets: shared.Sheets,
		Adjust: func(o *analysis.Options) {
			if f.AmountSource != "" {
				o.AmountSource = f.AmountSource
			}
			if f.MinSample > 0 {
				o.BenfordMinSample = f.MinSample
			}
		},
	}
	view := common.View{
		Text: report.Benford,
		Subset: func(rep *analysis.Report) interface{} {
			var out []SheetBenford
			for _, s := range rep.Sheets {
				if !s.Skipped {
					out = append(out, SheetBenford{Sheet: s.Sheet, Benford: s.Benford})
				}
			}
			return out
		},
	}
	return common.RunView(ctx, c, req, shared.Output, view, w)
}
