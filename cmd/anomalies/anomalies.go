// Package anomalies implements the anomalies command.
package anomalies

import (
	"context"
	"io"

	"fjacquet/gl-audit/cmd/common"
	"fjacquet/gl-audit/cmd/root"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/report"

	"github.com/spf13/cobra"
)

// Flags are the anomalies-specific options.
type Flags struct {
	AmountSource string
	MinSeverity  string
}

var flags Flags

// Cmd represents the anomalies command
var Cmd = &cobra.Command{
	Use:   "anomalies",
	Short: "List transactions flagged by the anomaly rules",
	Long: `List the transactions flagged by the z-score, IQR, mean-multiple, maximum
and round-number rules, highest severity first.

Example:
  gl-audit anomalies -i ledger.xlsx -f text --min-severity medium`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&flags.AmountSource, "amount", "", "Amount evaluated: gross, debit, credit or side (default from config)")
	Cmd.Flags().StringVar(&flags.MinSeverity, "min-severity", "low", "Lowest severity listed: low, medium or high")
}

// SheetAnomalies is the anomaly list of one sheet.
type SheetAnomalies struct {
	Sheet     string                 `json:"sheet" yaml:"sheet"`
	Severity  map[string]int         `json:"severity" yaml:"severity"`
	Anomalies []models.AnomalyResult `json:"anomalies" yaml:"anomalies"`
}

// Run analyzes shared.Input and writes its anomalies.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	minimum, err := models.ParseSeverity(f.MinSeverity)
	if err != nil {
		return err
	}
	req := common.Request{
		Input:  shared.Input,
		Sheets: shared.Sheets,
		Adjust: func(o *analysis.Options) {
			if f.AmountSource != "" {
				o.AmountSource = f.AmountSource
			}
		},
	}
	view := common.View{
		Text: func(rep *analysis.Report) string { return report.Anomalies(filter(rep, minimum)) },
		Subset: func(rep *analysis.Report) interface{} {
			var out []SheetAnomalies
			for _, s := range filter(rep, minimum).Sheets {
				if !s.Skipped {
					out = append(out, SheetAnomalies{Sheet: s.Sheet, Severity: s.Severity, Anomalies: s.Anomalies})
				}
			}
			return out
		},
	}
	return common.RunView(ctx, c, req, shared.Output, view, w)
}

// filter returns a copy of rep keeping anomalies at or above minimum.
func filter(rep *analysis.Report, minimum models.Severity) *analysis.Report {
	out := *rep
	out.Sheets = make([]analysis.SheetResult, len(rep.Sheets))
	for i, s := range rep.Sheets {
		var kept []models.AnomalyResult
		for _, a := range s.Anomalies {
			if a.Severity >= minimum {
				kept = append(kept, a)
			}
		}
		s.Anomalies = kept
		out.Sheets[i] = s
	}
	return &out
}
