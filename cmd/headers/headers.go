// Package headers implements the headers command.
package headers

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

// Cmd represents the headers command
var Cmd = &cobra.Command{
	Use:   "headers",
	Short: "Show the detected header row and column roles of each sheet",
	Long: `Show where the header row of each sheet was found, how it was found, and
which column was resolved for each semantic role.

Example:
  gl-audit headers -i ledger.xlsx -f text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, cmd.OutOrStdout())
	},
}

// SheetHeader is the header detection outcome of one sheet.
type SheetHeader struct {
	Sheet        string                   `json:"sheet" yaml:"sheet"`
	HeaderRow    int                      `json:"header_row" yaml:"header_row"`
	HeaderMethod models.HeaderMethod      `json:"header_method" yaml:"header_method"`
	Headers      []string                 `json:"headers,omitempty" yaml:"headers,omitempty"`
	Columns      models.SemanticColumnMap `json:"columns" yaml:"columns"`
	Reason       string                   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Run detects the headers of shared.Input and writes them out.
func Run(ctx context.Context, c *container.Container, shared root.CommonFlags, w io.Writer) error {
	return common.RunView(ctx, c, common.Request{Input: shared.Input, Sheets: shared.Sheets}, shared.Output,
		common.View{Text: report.Headers, Subset: subset}, w)
}

func subset(rep *analysis.Report) interface{} {
	out := make([]SheetHeader, 0, len(rep.Sheets))
	for _, s := range rep.Sheets {
		out = append(out, SheetHeader{
			Sheet:        s.Sheet,
			HeaderRow:    s.HeaderRow,
			HeaderMethod: s.HeaderMethod,
			Headers:      s.Headers,
			Columns:      s.Columns,
			Reason:       s.Reason,
		})
	}
	return out
}
