package report

import (
	"fmt"
	"strings"

	"fjacquet/gl-audit/internal/analysis"
)

// Anomalies lists every flagged transaction of each analyzed sheet, highest
// severity first.
func Anomalies(report *analysis.Report) string {
	var b strings.Builder
	for _, s := range analyzedSheets(report) {
		fmt.Fprintf(&b, "== %s ==\n", s.Sheet)
		if len(s.Anomalies) == 0 {
			b.WriteString("no anomalies\n")
			continue
		}
		fmt.Fprintf(&b, "%d high, %d medium, %d low\n", s.Severity["high"], s.Severity["medium"], s.Severity["low"])
		for _, a := range s.Anomalies {
			z := "-"
			if a.ZScore != nil {
				z = fmt.Sprintf("%.2f", *a.ZScore)
			}
			fmt.Fprintf(&b, "  row %-5d %-6s %-10s %-16s %14.0f z=%s  %s\n",
				a.Row, a.Severity, a.Date, a.Account, a.Amount, z, strings.Join(a.Reasons, "; "))
		}
	}
	return b.String()
}

// Benford renders the first-digit table of each analyzed sheet.
func Benford(report *analysis.Report) string {
	var b strings.Builder
	for _, s := range analyzedSheets(report) {
		fmt.Fprintf(&b, "== %s ==\n", s.Sheet)
		bf := s.Benford
		if bf == nil || bf.Total == 0 {
			b.WriteString("no positive amounts\n")
			continue
		}
		b.WriteString("digit  count  actual%  benford%   diff\n")
		for _, d := range bf.Digits {
			fmt.Fprintf(&b, "%5d %6d %8.1f %9.1f %6.1f\n", d.Digit, d.ActualCount, d.ActualPercent, d.BenfordPercent, d.Difference)
		}
		fmt.Fprintf(&b, "n=%d chi2=%.2f p=%.4f MAD=%.4f %s\n", bf.Total, bf.ChiSquare, bf.PValue, bf.MAD, bf.Conformity)
		if bf.LowConfidence {
			b.WriteString("low confidence: sample too small\n")
		}
	}
	return b.String()
}

// Relations lists the account relationship edges of each analyzed sheet,
// strongest first. A positive limit keeps only that many edges per sheet.
func Relations(report *analysis.Report, limit int) string {
	var b strings.Builder
	for _, s := range analyzedSheets(report) {
		fmt.Fprintf(&b, "== %s ==\n", s.Sheet)
		edges := s.Relations
		if limit > 0 && len(edges) > limit {
			edges = edges[:limit]
		}
		if len(edges) == 0 {
			b.WriteString("no relations\n")
			continue
		}
		for _, e := range edges {
			fmt.Fprintf(&b, "  %s -> %s  x%d  %s\n", e.Source, e.Target, e.Count, e.Amount.StringFixed(0))
		}
	}
	return b.String()
}

func analyzedSheets(report *analysis.Report) []analysis.SheetResult {
	var out []analysis.SheetResult
	for _, s := range report.Sheets {
		if !s.Skipped {
			out = append(out, s)
		}
	}
	return out
}
