// Package analysis runs the full ledger pipeline over a decoded workbook:
// header location, column resolution, sanitizing, relationship building,
// statistics, sampling, summaries and the optional AI review.
package analysis

import (
	"context"
	"errors"
	"time"

	"fjacquet/gl-audit/internal/accounts"
	"fjacquet/gl-audit/internal/aiclient"
	"fjacquet/gl-audit/internal/ledgerparser"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/parsererror"
	"fjacquet/gl-audit/internal/relations"
	"fjacquet/gl-audit/internal/sampler"
	"fjacquet/gl-audit/internal/stats"
	"fjacquet/gl-audit/internal/summary"
	"fjacquet/gl-audit/internal/usage"
	"fjacquet/gl-audit/internal/workbook"

	"github.com/google/uuid"
)

// Skip reasons reported on SheetResult.
const (
	ReasonNoHeader       = "header row not found"
	ReasonNoTransactions = "no transactions after sanitizing"
	ReasonNotSelected    = "not selected"
)

// Options control what the Analyzer computes.
type Options struct {
	Sheets              []string // empty means every sheet
	Anomaly             stats.AnomalyConfig
	AmountSource        string // gross, debit, credit or side
	BenfordMinSample    int
	Policy              sampler.SizePolicy
	SampleTarget        int // overrides the policy when positive
	Seed                int64
	TopN                int
	TokenBudget         int
	IncludeTransactions bool
	Review              bool
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		Anomaly:          stats.DefaultAnomalyConfig(),
		AmountSource:     "gross",
		BenfordMinSample: stats.BenfordMinSample,
		Policy:           sampler.SmartPolicy{},
		TopN:             summary.DefaultTopN,
		TokenBudget:      summary.DefaultTokenBudget,
	}
}

// SheetResult is the analysis of one sheet. Skipped sheets carry a Reason
// and otherwise zero values.
type SheetResult struct {
	Sheet        string                   `json:"sheet" yaml:"sheet"`
	Skipped      bool                     `json:"skipped" yaml:"skipped"`
	Reason       string                   `json:"reason,omitempty" yaml:"reason,omitempty"`
	HeaderRow    int                      `json:"header_row" yaml:"header_row"`
	HeaderMethod models.HeaderMethod      `json:"header_method" yaml:"header_method"`
	Headers      []string                 `json:"headers,omitempty" yaml:"headers,omitempty"`
	Columns      models.SemanticColumnMap `json:"columns" yaml:"columns"`
	Stats        models.SanitizeStats     `json:"row_stats" yaml:"row_stats"`
	Transactions []models.Transaction     `json:"transactions,omitempty" yaml:"transactions,omitempty"`
	Accounts     map[string]string        `json:"account_types,omitempty" yaml:"account_types,omitempty"`
	Relations    []models.RelationEdge    `json:"relations,omitempty" yaml:"relations,omitempty"`
	Descriptive  *stats.Summary           `json:"descriptive,omitempty" yaml:"descriptive,omitempty"`
	Anomalies    []models.AnomalyResult   `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
	Severity     map[string]int           `json:"severity,omitempty" yaml:"severity,omitempty"`
	Benford      *stats.BenfordReport     `json:"benford,omitempty" yaml:"benford,omitempty"`
	Sample       *models.SampleSet        `json:"sample,omitempty" yaml:"sample,omitempty"`
	Summary      *summary.Summary         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Review       *aiclient.Response       `json:"review,omitempty" yaml:"review,omitempty"`
	ReviewError  string                   `json:"review_error,omitempty" yaml:"review_error,omitempty"`

	// parsed keeps the canonical rows for callers that export them.
	parsed *models.ParsedSheet
}

// Parsed returns the parsed sheet behind the result, or nil when skipped.
func (r SheetResult) Parsed() *models.ParsedSheet { return r.parsed }

// Report is the analysis of one workbook.
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	File        string             `json:"file" yaml:"file"`
	Format      workbook.Format    `json:"format" yaml:"format"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Sheets      []SheetResult      `json:"sheets" yaml:"sheets"`
	Usage       []usage.ModelUsage `json:"ai_usage,omitempty" yaml:"ai_usage,omitempty"`
}

// Analyzed counts the sheets that were not skipped.
func (r *Report) Analyzed() int {
	n := 0
	for _, s := range r.Sheets {
		if !s.Skipped {
			n++
		}
	}
	return n
}

// Analyzer runs the pipeline. It holds no per-run state and may be shared
// between goroutines as long as its Analyst is.
type Analyzer struct {
	parser     *ledgerparser.Parser
	classifier *accounts.Classifier
	analyst    aiclient.Analyst
	opts       Options
	now        func() time.Time
	logger     logging.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithParser replaces the default ledger parser.
func WithParser(p *ledgerparser.Parser) Option {
	return func(a *Analyzer) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithClassifier replaces the default account classifier.
func WithClassifier(c *accounts.Classifier) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithAnalyst enables AI review through analyst when Options.Review is set.
func WithAnalyst(analyst aiclient.Analyst) Option {
	return func(a *Analyzer) { a.analyst = analyst }
}

// WithNow sets the clock used for report timestamps.
func WithNow(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger logging.Logger, opts Options, options ...Option) *Analyzer {
	logger = logging.OrDefault(logger)
	if opts.Policy == nil {
		opts.Policy = sampler.SmartPolicy{}
	}
	a := &Analyzer{
		parser:     ledgerparser.NewParser(logger),
		classifier: accounts.NewClassifier(),
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Parser returns the ledger parser in use.
func (a *Analyzer) Parser() *ledgerparser.Parser { return a.parser }

// AnalyzeWorkbook analyzes every selected sheet of wb. Sheets that cannot be
// parsed are reported as skipped; only a nil workbook or a cancelled context
// is an error. The usage ledger is returned updated with any AI calls.
func (a *Analyzer) AnalyzeWorkbook(ctx context.Context, wb *workbook.Workbook, ledger usage.Ledger) (*Report, usage.Ledger, error) {
	if wb == nil {
		return nil, ledger, parsererror.ErrNoData
	}
	runID := uuid.NewString()
	logger := a.logger.WithFields(logging.F(logging.FieldRunID, runID), logging.F(logging.FieldFile, wb.Path))

	report := &Report{RunID: runID, File: wb.Path, Format: wb.Format, GeneratedAt: a.now()}
	start := ledger
	for _, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, ledger, err
		}
		if !a.selected(sheet.Name) {
			report.Sheets = append(report.Sheets, skipped(sheet.Name, ReasonNotSelected))
			continue
		}
		var result SheetResult
		result, ledger = a.analyzeSheet(ctx, sheet, ledger, logger)
		report.Sheets = append(report.Sheets, result)
	}
	// Usage is cumulative over the ledger the caller passed in.
	if ledger.Total().Calls > start.Total().Calls {
		report.Usage = ledger.Models()
	}

	logger.Info("Workbook analyzed",
		logging.F("sheets", len(wb.Sheets)),
		logging.F("analyzed", report.Analyzed()))
	return report, ledger, nil
}

// AnalyzeSheet runs the pipeline on a single sheet.
func (a *Analyzer) AnalyzeSheet(ctx context.Context, sheet workbook.Sheet, ledger usage.Ledger) (SheetResult, usage.Ledger) {
	return a.analyzeSheet(ctx, sheet, ledger, a.logger)
}

func (a *Analyzer) selected(name string) bool {
	if len(a.opts.Sheets) == 0 {
		return true
	}
	for _, s := range a.opts.Sheets {
		if s == name {
			return true
		}
	}
	return false
}

func skipped(name, reason string) SheetResult {
	return SheetResult{Sheet: name, Skipped: true, Reason: reason, HeaderRow: -1, HeaderMethod: models.HeaderNotFound}
}

func (a *Analyzer) analyzeSheet(ctx context.Context, sheet workbook.Sheet, ledger usage.Ledger, logger logging.Logger) (SheetResult, usage.Ledger) {
	logger = logger.WithField(logging.FieldSheet, sheet.Name)

	parsed, err := a.parser.ParseSheet(sheet.Name, sheet.Grid)
	if err != nil {
		logger.WithError(err).Warn("Sheet could not be parsed")
		return skipped(sheet.Name, err.Error()), ledger
	}
	if parsed.HeaderRow < 0 {
		return skipped(sheet.Name, ReasonNoHeader), ledger
	}

	result := SheetResult{
		Sheet:        sheet.Name,
		HeaderRow:    parsed.HeaderRow,
		HeaderMethod: parsed.HeaderMethod,
		Headers:      parsed.Headers,
		Columns:      parsed.Columns,
		Stats:        parsed.Stats,
		parsed:       parsed,
	}
	if parsed.IsEmpty() {
		result.Skipped = true
		result.Reason = ReasonNoTransactions
		logger.Warn("No transactions left after sanitizing")
		return result, ledger
	}
	txs := parsed.Transactions
	if a.opts.IncludeTransactions {
		result.Transactions = txs
	}

	result.Accounts = a.accountTypes(txs)

	graph := relations.NewBuilder(logger).Build(txs)
	result.Relations = graph.Edges()

	amount := stats.AmountFuncFor(a.opts.AmountSource, a.classifier)
	anomalies, desc, err := stats.NewAnomalyDetector(a.opts.Anomaly, amount, logger).Detect(txs)
	switch {
	case errors.Is(err, parsererror.ErrNoData):
		logger.Warn("No positive amounts, statistics skipped")
	case err != nil:
		logger.WithError(err).Warn("Anomaly detection failed")
	default:
		result.Descriptive = &desc
		result.Anomalies = anomalies
		result.Severity = stats.CountBySeverity(anomalies)
	}

	benford := stats.BenfordFor(txs, amount, a.opts.BenfordMinSample)
	result.Benford = &benford
	if benford.LowConfidence && benford.Total > 0 {
		logger.Warn("Benford sample below minimum, result has low confidence",
			logging.F(logging.FieldCount, benford.Total),
			logging.F("min_sample", a.opts.BenfordMinSample))
	}

	set := a.sample(txs, logger)
	result.Sample = &set

	sum := summary.NewBuilder(a.opts.TokenBudget, a.opts.TopN, logger).Build(summary.Input{
		Sheet:        sheet.Name,
		Transactions: txs,
		Benford:      &benford,
		Anomalies:    result.Anomalies,
		Relations:    result.Relations,
		Sample:       &set,
	})
	result.Summary = &sum

	if a.opts.Review && a.analyst != nil {
		resp, next, err := aiclient.Review(ctx, a.analyst, aiclient.BuildPrompt(sum), ledger)
		if err != nil {
			logger.WithError(err).Warn("AI review failed, continuing without it")
			result.ReviewError = err.Error()
		} else {
			result.Review = &resp
			ledger = next
		}
	}

	return result, ledger
}

func (a *Analyzer) sample(txs []models.Transaction, logger logging.Logger) models.SampleSet {
	s := sampler.New(logger, sampler.WithSeed(a.opts.Seed), sampler.WithClassifier(a.classifier))
	if a.opts.SampleTarget <= 0 {
		return s.Sample(txs, a.opts.Policy)
	}
	var set models.SampleSet
	if a.opts.Policy.Name() == sampler.PolicySmart {
		set = s.SmartSample(txs, a.opts.SampleTarget)
	} else {
		set = s.HybridSample(txs, a.opts.SampleTarget)
	}
	set.Policy = a.opts.Policy.Name()
	return set
}

func (a *Analyzer) accountTypes(txs []models.Transaction) map[string]string {
	out := make(map[string]string)
	for _, tx := range txs {
		if tx.Account == "" {
			continue
		}
		if _, ok := out[tx.Account]; !ok {
			out[tx.Account] = string(a.classifier.Classify(tx.Account))
		}
	}
	return out
}
