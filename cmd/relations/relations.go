// Package relations implements the relations command.
package relations

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

// Flags are the relations-specific options.
type Flags struct {
	Top int
}

var flags Flags

// Cmd represents the relations command
var Cmd = &cobra.Command{
	Use:   "relations",
	Short: "List account relationships inferred from vouchers",
	Long: `Group transactions into vouchers and list the debit-to-credit account
edges, strongest first, with their occurrence count and total amount.

Example:
  gl-audit relations -i ledger.xlsx -f text --top 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, flags, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().IntVar(&flags.Top, "top", 0, "Keep only the strongest N edges per sheet (0 keeps all)")
}

// SheetRelations is the edge list of one sheet.
type SheetRelations struct {
	Sheet     string                `json:"sheet" yaml:"sheet"`
	Accounts  map[string]string     `json:"account_types,omitempty" yaml:"account_types,omitempty"`
	Relations []models.RelationEdge `json:"relations" yaml:"relations"`
}

// Run analyzes shared.Input and writes its account relationships.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, f Flags, w io.Writer) error {
	req := common.Request{Input: shared.Input, Sheets: shared.Sheets}
	view := common.View{
		Text: func(rep *analysis.Report) string { return report.Relations(rep, f.Top) },
		Subset: func(rep *analysis.Report) interface{} {
			var out []SheetRelations
			for _, s := range rep.Sheets {
				if s.Skipped {
					continue
				}
				edges := s.Relations
				if f.Top > 0 && len(edges) > f.Top {
					edges = edges[:f.Top]
				}
				out = append(out, SheetRelations{Sheet: s.Sheet, Accounts: s.Accounts, Relations: edges})
			}
			return out
		},
	}
	return common.RunView(ctx, c, req, shared.Output, view, w)
}
