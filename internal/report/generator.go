// Package report renders analysis results as JSON, YAML or a plain-text
// digest and writes them to disk.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/fileutils"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/validation"

	"gopkg.in/yaml.v3"
)

// textTopN bounds the relation and anomaly lists of the text digest.
const textTopN = 10

// ReportGenerator renders analysis reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logging.OrDefault(logger)}
}

// GenerateReport renders report in format (json, yaml or text).
func (g *ReportGenerator) GenerateReport(report *analysis.Report, format string) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("cannot render nil report")
	}
	if err := validation.IsValidOutputFormat(format); err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case validation.FormatYAML:
		return g.generateYAMLReport(report)
	case validation.FormatText:
		return []byte(Text(report)), nil
	default:
		return g.generateJSONReport(report)
	}
}

// WriteReport renders report and writes it to path.
func (g *ReportGenerator) WriteReport(report *analysis.Report, format, path string) error {
	data, err := g.GenerateReport(report, format)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		g.logger.WithError(err).Error("Failed to write report", logging.F(logging.FieldOutputFile, path))
		return err
	}
	g.logger.Info("Report written",
		logging.F(logging.FieldOutputFile, path),
		logging.F("format", format))
	return nil
}

func (g *ReportGenerator) generateJSONReport(report *analysis.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *ReportGenerator) generateYAMLReport(report *analysis.Report) ([]byte, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return data, nil
}

// Text renders a short human-readable digest of report.
func Text(report *analysis.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File:   %s\nRun ID: %s\nSheets: %d analyzed of %d\n",
		report.File, report.RunID, report.Analyzed(), len(report.Sheets))

	for _, s := range report.Sheets {
		fmt.Fprintf(&b, "\n== %s ==\n", s.Sheet)
		if s.Skipped && s.Parsed() == nil {
			fmt.Fprintf(&b, "skipped: %s\n", s.Reason)
			continue
		}
		writeSheet(&b, s)
	}

	for _, u := range report.Usage {
		fmt.Fprintf(&b, "\nAI usage %s: %d calls, %d tokens, cost %.4f\n", u.Model, u.Calls, u.TotalTokens(), u.Cost)
	}
	return b.String()
}

// Headers renders the header location and column roles of each sheet.
func Headers(report *analysis.Report) string {
	var b strings.Builder
	for _, s := range report.Sheets {
		if s.Skipped && s.HeaderRow < 0 {
			fmt.Fprintf(&b, "%s: %s\n", s.Sheet, s.Reason)
			continue
		}
		fmt.Fprintf(&b, "%s: header row %d (%s)\n", s.Sheet, s.HeaderRow+1, s.HeaderMethod)
		writeColumns(&b, s.Columns)
	}
	return b.String()
}

func writeSheet(b *strings.Builder, s analysis.SheetResult) {
	fmt.Fprintf(b, "header row %d (%s)\n", s.HeaderRow+1, s.HeaderMethod)
	writeColumns(b, s.Columns)
	fmt.Fprintf(b, "rows: %d kept, %d dropped (%d summary, %d blank, %d zero, %d repeated header)\n",
		s.Stats.Kept, s.Stats.Dropped(), s.Stats.SummaryRows, s.Stats.BlankRows, s.Stats.ZeroAmount, s.Stats.DuplicateHeader)
	if s.Skipped {
		fmt.Fprintf(b, "skipped: %s\n", s.Reason)
		return
	}

	if d := s.Descriptive; d != nil {
		fmt.Fprintf(b, "amounts: n=%d mean=%.0f sd=%.0f median=%.0f max=%.0f\n", d.Count, d.Mean, d.StdDev, d.Median, d.Max)
	}
	if len(s.Severity) > 0 {
		fmt.Fprintf(b, "anomalies: %d high, %d medium, %d low\n", s.Severity["high"], s.Severity["medium"], s.Severity["low"])
		for _, a := range s.Anomalies[:min(len(s.Anomalies), textTopN)] {
			fmt.Fprintf(b, "  row %d %s %s %.0f [%s] %s\n", a.Row, a.Date, a.Account, a.Amount, a.Severity, strings.Join(a.Reasons, "; "))
		}
	}
	if bf := s.Benford; bf != nil && bf.Total > 0 {
		fmt.Fprintf(b, "benford: n=%d MAD=%.4f %s", bf.Total, bf.MAD, bf.Conformity)
		if bf.LowConfidence {
			b.WriteString(" (low confidence)")
		}
		b.WriteString("\n")
	}
	if len(s.Relations) > 0 {
		fmt.Fprintf(b, "relations: %d\n", len(s.Relations))
		for _, e := range s.Relations[:min(len(s.Relations), textTopN)] {
			fmt.Fprintf(b, "  %s -> %s  x%d  %s\n", e.Source, e.Target, e.Count, e.Amount.StringFixed(0))
		}
	}
	if s.Sample != nil {
		fmt.Fprintf(b, "sample: %d of %d (%s)\n", s.Sample.Size(), s.Sample.Total, s.Sample.Method)
	}
	if s.Review != nil {
		fmt.Fprintf(b, "review:\n%s\n", s.Review.Text)
	}
	if s.ReviewError != "" {
		fmt.Fprintf(b, "review failed: %s\n", s.ReviewError)
	}
}

func writeColumns(b *strings.Builder, c models.SemanticColumnMap) {
	roles := []struct{ role, column string }{
		{"date", c.Date}, {"debit", c.Debit}, {"credit", c.Credit}, {"account", c.Account},
		{"voucher", c.Voucher}, {"vendor", c.Vendor}, {"description", c.Description},
		{"balance", c.Balance}, {"classification", c.Classification},
	}
	for _, r := range roles {
		column := r.column
		if column == "" {
			column = "-"
		}
		fmt.Fprintf(b, "  %-14s %s\n", r.role, column)
	}
}
