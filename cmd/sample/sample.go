// Package sample implements the sample command.
package sample

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"fjacquet/gl-audit/cmd/common"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/internal/analysis"
	internalcommon "fjacquet/gl-audit/internal/common"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/sampler"

	"github.com/spf13/cobra"
)

// Flags are the sample-specific options.
type Flags struct {
	Policy string
	Target int
	Seed   int64
}

var flags Flags

// Cmd represents the sample command
var Cmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a reviewable transaction sample from each sheet",
	Long: `Draw a bounded sample from each sheet with the smart policy (materiality,
recent, monthly, outlier and random stages) or the hybrid policy (strided
over date order). The sample is written as CSV with a leading sheet column
unless --format is given.

Example:
  gl-audit sample -i ledger.xlsx --policy hybrid -o sample.csv
  gl-audit sample -i ledger.xlsx --target 100 --seed 7 -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&flags.Policy, "policy", "", "Sample size policy: smart or hybrid (default from config)")
	Cmd.Flags().IntVar(&flags.Target, "target", 0, "Fixed sample size overriding the policy")
	Cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "Random seed for a reproducible sample (0 draws a fresh one)")
}

// SheetSample is the sample drawn from one sheet.
type SheetSample struct {
	Sheet  string            `json:"sheet" yaml:"sheet"`
	Sample *models.SampleSet `json:"sample" yaml:"sample"`
}

// sampleRow is one CSV line of the sample export.
type sampleRow struct {
	Sheet       string `csv:"sheet"`
	Row         int    `csv:"row"`
	Date        string `csv:"date"`
	Account     string `csv:"account"`
	Voucher     string `csv:"voucher"`
	Vendor      string `csv:"vendor"`
	Description string `csv:"description"`
	Debit       string `csv:"debit"`
	Credit      string `csv:"credit"`
}

// Run samples shared.Input. Without an explicit format the sample is
// written as CSV.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	var policy sampler.SizePolicy
	if f.Policy != "" {
		p, err := sampler.PolicyByName(f.Policy)
		if err != nil {
			return err
		}
		policy = p
	}

	req := common.Request{
		Input:  shared.Input,
		Sheets: shared.Sheets,
		Adjust: func(o *analysis.Options) {
			if policy != nil {
				o.Policy = policy
			}
			if f.Target > 0 {
				o.SampleTarget = f.Target
			}
			if f.Seed != 0 {
				o.Seed = f.Seed
			}
		},
	}

	if shared.Format != "" {
		view := common.View{
			Text: func(rep *analysis.Report) string { return text(rep) },
			Subset: func(rep *analysis.Report) interface{} {
				var out []SheetSample
				for _, s := range rep.Sheets {
					if s.Sample != nil {
						out = append(out, SheetSample{Sheet: s.Sheet, Sample: s.Sample})
					}
				}
				return out
			},
		}
		return common.RunView(ctx, c, req, shared.Output, view, w)
	}

	rep, err := common.AnalyzeFile(ctx, c, req)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := internalcommon.MarshalCSV(&buf, rows(rep), c.GetConfig().Delimiter()); err != nil {
		return err
	}
	return common.WriteOutput(w, shared.Output, buf.Bytes(), c.GetLogger())
}

func rows(rep *analysis.Report) []sampleRow {
	var out []sampleRow
	for _, s := range rep.Sheets {
		if s.Sample == nil {
			continue
		}
		for _, tx := range s.Sample.Transactions {
			out = append(out, sampleRow{
				Sheet:       s.Sheet,
				Row:         tx.Row,
				Date:        tx.Date,
				Account:     tx.Account,
				Voucher:     tx.Voucher,
				Vendor:      tx.Vendor,
				Description: tx.Description,
				Debit:       tx.Debit.StringFixed(2),
				Credit:      tx.Credit.StringFixed(2),
			})
		}
	}
	return out
}

func text(rep *analysis.Report) string {
	var b bytes.Buffer
	for _, s := range rep.Sheets {
		if s.Sample == nil {
			continue
		}
		fmt.Fprintf(&b, "== %s ==\n%d of %d (%s, %s)\n", s.Sheet, s.Sample.Size(), s.Sample.Total, s.Sample.Policy, s.Sample.Method)
		for _, st := range s.Sample.Composition {
			fmt.Fprintf(&b, "  %-12s %d\n", st.Name, st.Count)
		}
	}
	return b.String()
}
