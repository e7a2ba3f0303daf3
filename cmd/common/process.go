// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"

	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/fileutils"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/usage"
	"fjacquet/gl-audit/internal/validation"
	"fjacquet/gl-audit/internal/workbook"
)

// Request describes the analysis of one input file.
type Request struct {
	Input  string
	Sheets []string
	// Adjust may tweak the configured analysis options before the run.
	Adjust func(*analysis.Options)
}

// AnalyzeFile reads the workbook named by req.Input and analyzes the
// selected sheets.
func AnalyzeFile(ctx context.Context, c *container.Container, req Request) (*analysis.Report, error) {
	if err := validation.IsValidInputFile(req.Input); err != nil {
		return nil, err
	}
	logger := c.GetLogger().WithField(logging.FieldInputFile, req.Input)

	wb, err := workbook.Open(req.Input, logger, c.ReadOptions())
	if err != nil {
		return nil, err
	}

	opts, err := c.AnalysisOptions()
	if err != nil {
		return nil, err
	}
	opts.Sheets = req.Sheets
	if req.Adjust != nil {
		req.Adjust(&opts)
	}

	rep, ledger, err := c.NewAnalyzer(opts).AnalyzeWorkbook(ctx, wb, c.NewUsageLedger())
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", req.Input, err)
	}
	if rep.Analyzed() == 0 {
		logger.Warn("No sheet could be analyzed", logging.F("sheets", len(rep.Sheets)))
	}
	LogUsage(logger, ledger)
	return rep, nil
}

// WriteOutput writes data to path, or to w when path is empty.
func WriteOutput(w io.Writer, path string, data []byte, logger logging.Logger) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return err
	}
	logging.OrDefault(logger).Info("Output written", logging.F(logging.FieldOutputFile, path))
	return nil
}

// LogUsage logs the AI calls recorded in ledger, if any.
func LogUsage(logger logging.Logger, ledger usage.Ledger) {
	if ledger.IsEmpty() {
		return
	}
	for _, m := range ledger.Models() {
		logger.Info("AI usage",
			logging.F(logging.FieldModel, m.Model),
			logging.F("calls", m.Calls),
			logging.F("tokens", m.TotalTokens()),
			logging.F("cost", m.Cost))
	}
}

// View renders part of a report.
type View struct {
	Text   func(*analysis.Report) string
	Subset func(*analysis.Report) interface{}
}

// RunView analyzes req and writes the view in the configured output format
// to path, or to w when path is empty.
func RunView(ctx context.Context, c *container.Container, req Request, path string, view View, w io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	format := c.GetConfig().Output.Format
	rep, err := AnalyzeFile(ctx, c, req)
	if err != nil {
		return err
	}
	var text string
	if format == validation.FormatText {
		text = view.Text(rep)
	}
	data, err := Render(format, text, view.Subset(rep))
	if err != nil {
		return err
	}
	return WriteOutput(w, path, data, c.GetLogger())
}
