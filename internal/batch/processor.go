// Package batch analyzes every workbook in a directory and writes one report
// per input file. Files are processed concurrently; sheets within a file are
// not.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/fileutils"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/report"
	"fjacquet/gl-audit/internal/usage"
	"fjacquet/gl-audit/internal/validation"
	"fjacquet/gl-audit/internal/workbook"

	"golang.org/x/sync/errgroup"
)

// FileResult describes the outcome for one input file.
type FileResult struct {
	Input        string    `json:"input" yaml:"input"`
	Output       string    `json:"output,omitempty" yaml:"output,omitempty"`
	RunID        string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Sheets       int       `json:"sheets" yaml:"sheets"`
	Analyzed     int       `json:"analyzed" yaml:"analyzed"`
	Transactions int       `json:"transactions" yaml:"transactions"`
	Duplicates   int       `json:"duplicates" yaml:"duplicates"`
	DateRange    DateRange `json:"date_range" yaml:"date_range"`
	CSVFiles     []string  `json:"csv_files,omitempty" yaml:"csv_files,omitempty"`
	Err          error     `json:"-" yaml:"-"`
}

// Failed reports whether the file could not be analyzed.
func (r FileResult) Failed() bool { return r.Err != nil }

// Processor runs the analysis over a directory.
type Processor struct {
	analyzer  *analysis.Analyzer
	generator *report.ReportGenerator
	readOpts  workbook.Options
	format    string
	workers   int
	writeCSV  bool
	logger    logging.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithFormat sets the report format (json, yaml or text).
func WithFormat(format string) Option {
	return func(p *Processor) {
		if format != "" {
			p.format = format
		}
	}
}

// WithWorkers bounds the number of files analyzed at once.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithReadOptions sets the workbook decoding options.
func WithReadOptions(opts workbook.Options) Option {
	return func(p *Processor) { p.readOpts = opts }
}

// WithCSVExport also writes the canonical transactions of every analyzed
// sheet as CSV next to the report.
func WithCSVExport(enabled bool) Option {
	return func(p *Processor) { p.writeCSV = enabled }
}

// NewProcessor creates a Processor.
func NewProcessor(analyzer *analysis.Analyzer, generator *report.ReportGenerator, logger logging.Logger, opts ...Option) *Processor {
	logger = logging.OrDefault(logger)
	if generator == nil {
		generator = report.NewReportGenerator(logger)
	}
	p := &Processor{
		analyzer:  analyzer,
		generator: generator,
		format:    validation.FormatJSON,
		workers:   runtime.NumCPU(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessDirectory analyzes every supported workbook directly inside
// inputDir. A file that fails is recorded in its FileResult and does not
// stop the others; only a cancelled context or an unreadable directory is
// returned as an error. AI usage of all files is merged into ledger.
func (p *Processor) ProcessDirectory(ctx context.Context, inputDir, outputDir string, ledger usage.Ledger) ([]FileResult, usage.Ledger, error) {
	if err := validation.IsValidOutputFormat(p.format); err != nil {
		return nil, ledger, err
	}
	files, err := fileutils.ListFiles(inputDir, workbook.IsSupported)
	if err != nil {
		return nil, ledger, err
	}
	if len(files) == 0 {
		p.logger.Warn("No supported files found in input directory", logging.F(logging.FieldFile, inputDir))
		return nil, ledger, nil
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return nil, ledger, err
	}

	p.logger.Info("Found files for processing",
		logging.F(logging.FieldCount, len(files)),
		logging.F("workers", p.workers))

	results := make([]FileResult, len(files))
	ledgers := make([]usage.Ledger, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], ledgers[i] = p.ProcessFile(gctx, file, outputDir, usage.NewLedger(ledger.Price()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, ledger, err
	}

	failed := 0
	for i := range results {
		ledger = ledger.Merge(ledgers[i])
		if results[i].Failed() {
			failed++
		}
	}
	p.logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, len(files)),
		logging.F("failed", failed))
	return results, ledger, nil
}

// ProcessFile analyzes one workbook and writes its report into outputDir.
func (p *Processor) ProcessFile(ctx context.Context, input, outputDir string, ledger usage.Ledger) (FileResult, usage.Ledger) {
	start := time.Now()
	result := FileResult{Input: input}
	logger := p.logger.WithField(logging.FieldInputFile, filepath.Base(input))

	wb, err := workbook.Open(input, logger, p.readOpts)
	if err != nil {
		logger.WithError(err).Error("Failed to read workbook")
		result.Err = err
		return result, ledger
	}

	rep, ledger, err := p.analyzer.AnalyzeWorkbook(ctx, wb, ledger)
	if err != nil {
		logger.WithError(err).Error("Failed to analyze workbook")
		result.Err = err
		return result, ledger
	}
	result.RunID = rep.RunID
	result.Sheets = len(rep.Sheets)
	result.Analyzed = rep.Analyzed()

	var all []models.Transaction
	for _, s := range rep.Sheets {
		if s.Parsed() == nil {
			continue
		}
		txs := s.Parsed().Transactions
		all = append(all, txs...)
		if p.writeCSV && len(txs) > 0 {
			path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)), fileutils.SafeName(s.Sheet)))
			if err := p.analyzer.Parser().WriteToCSV(txs, path); err != nil {
				logger.WithError(err).Warn("Failed to export transactions", logging.F(logging.FieldSheet, s.Sheet))
				continue
			}
			result.CSVFiles = append(result.CSVFiles, path)
		}
	}
	result.Transactions = len(all)
	result.DateRange = CalculateDateRange(all)
	result.Duplicates = FindDuplicates(all, logger)

	result.Output = filepath.Join(outputDir, filepath.Base(input)+"."+extension(p.format))
	if err := p.generator.WriteReport(rep, p.format, result.Output); err != nil {
		result.Err = err
		result.Output = ""
		return result, ledger
	}

	logger.Info("Processed workbook",
		logging.F(logging.FieldRunID, rep.RunID),
		logging.F("analyzed", result.Analyzed),
		logging.F(logging.FieldCount, result.Transactions),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, ledger
}

func extension(format string) string {
	if format == validation.FormatText {
		return "txt"
	}
	return format
}
