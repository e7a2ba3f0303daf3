// Package container provides dependency injection for the gl-audit application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/gl-audit/internal/accounts"
	"fjacquet/gl-audit/internal/aiclient"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/batch"
	"fjacquet/gl-audit/internal/config"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/ledgerparser"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/report"
	"fjacquet/gl-audit/internal/sampler"
	"fjacquet/gl-audit/internal/store"
	"fjacquet/gl-audit/internal/usage"
	"fjacquet/gl-audit/internal/workbook"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	dictionary *keywords.Dictionary
	classifier *accounts.Classifier
	parser     *ledgerparser.Parser
	analyst    aiclient.Analyst
	generator  *report.ReportGenerator
}

// Option overrides a dependency NewContainer would otherwise build.
type Option func(*options)

type options struct {
	logger  logging.Logger
	loader  store.VocabularyLoader
	analyst aiclient.Analyst
}

// WithLogger replaces the logger built from the log section.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVocabularyLoader replaces the file-backed vocabulary store.
func WithVocabularyLoader(loader store.VocabularyLoader) Option {
	return func(o *options) { o.loader = loader }
}

// WithAnalyst replaces the Gemini client.
func WithAnalyst(analyst aiclient.Analyst) Option {
	return func(o *options) { o.analyst = analyst }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	loader := o.loader
	if loader == nil {
		loader = store.NewVocabularyStore(cfg.Keywords.File, logger)
	}
	vocab, err := loader.LoadVocabulary()
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	dictionary, classifier := applyVocabulary(vocab, logger)

	parser := ledgerparser.NewParser(logger,
		ledgerparser.WithDictionary(dictionary),
		ledgerparser.WithScanRows(cfg.Parser.HeaderScanRows),
		ledgerparser.WithLookahead(cfg.Parser.LookaheadRows))
	parser.SetDelimiter(cfg.Delimiter())

	// Create AI client (if enabled)
	analyst := o.analyst
	if analyst == nil && cfg.AI.Enabled {
		timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
		gemini, err := aiclient.NewGeminiClient(context.Background(), cfg.AI.APIKey, cfg.AI.Model, timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		analyst = gemini
	}
	if analyst != nil {
		logger.Info("AI review enabled", logging.F(logging.FieldModel, analyst.Model()))
	} else {
		logger.Debug("AI review disabled")
	}

	logger.Info("Container initialized successfully",
		logging.F("vocabulary_overrides", !vocab.IsEmpty()),
		logging.F("ai_enabled", analyst != nil))

	return &Container{
		logger:     logger,
		config:     cfg,
		dictionary: dictionary,
		classifier: classifier,
		parser:     parser,
		analyst:    analyst,
		generator:  report.NewReportGenerator(logger),
	}, nil
}

// applyVocabulary extends the built-in keyword dictionary and account
// classifier. Unknown role names are logged and skipped.
func applyVocabulary(vocab store.Vocabulary, logger logging.Logger) (*keywords.Dictionary, *accounts.Classifier) {
	dictionary := keywords.Default()
	classifier := accounts.NewClassifier()
	if vocab.IsEmpty() {
		return dictionary, classifier
	}

	extra := make(map[keywords.Role][]string, len(vocab.Keywords))
	for name, words := range vocab.Keywords {
		role, ok := keywords.ParseRole(name)
		if !ok {
			logger.Warn("Ignoring unknown keyword role", logging.F(logging.FieldRole, name))
			continue
		}
		extra[role] = append(extra[role], words...)
	}
	for name := range vocab.Accounts {
		if accounts.ParseType(name) == accounts.Unknown {
			logger.Warn("Ignoring unknown account family", logging.F("family", name))
		}
	}
	return dictionary.Extend(extra, vocab.Titles), classifier.Extend(vocab.Accounts)
}

// AnalysisOptions returns the analysis settings described by the
// configuration. Callers may adjust the copy before building an Analyzer.
func (c *Container) AnalysisOptions() (analysis.Options, error) {
	policy, err := sampler.PolicyByName(c.config.Sampling.Policy)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Anomaly:          c.config.Analysis.AnomalyConfig,
		AmountSource:     c.config.Analysis.AmountSource,
		BenfordMinSample: c.config.Analysis.BenfordMinSample,
		Policy:           policy,
		SampleTarget:     c.config.Sampling.Target,
		Seed:             c.config.Sampling.Seed,
		TopN:             c.config.Analysis.TopN,
		TokenBudget:      c.config.Summary.TokenBudget,
		Review:           c.analyst != nil,
	}, nil
}

// NewAnalyzer builds an Analyzer sharing the container's parser, classifier
// and analyst.
func (c *Container) NewAnalyzer(opts analysis.Options) *analysis.Analyzer {
	options := []analysis.Option{
		analysis.WithParser(c.parser),
		analysis.WithClassifier(c.classifier),
	}
	if c.analyst != nil {
		options = append(options, analysis.WithAnalyst(c.analyst))
	}
	return analysis.NewAnalyzer(c.logger, opts, options...)
}

// NewProcessor builds a batch processor around analyzer using the configured
// output format and CSV input settings. Extra options are applied last.
func (c *Container) NewProcessor(analyzer *analysis.Analyzer, opts ...batch.Option) *batch.Processor {
	base := []batch.Option{
		batch.WithFormat(c.config.Output.Format),
		batch.WithReadOptions(c.ReadOptions()),
	}
	return batch.NewProcessor(analyzer, c.generator, c.logger, append(base, opts...)...)
}

// ReadOptions returns the workbook reader settings.
func (c *Container) ReadOptions() workbook.Options {
	return workbook.Options{Encoding: c.config.CSV.Encoding, Delimiter: c.config.Delimiter()}
}

// NewUsageLedger returns an empty ledger priced from the AI section.
func (c *Container) NewUsageLedger() usage.Ledger {
	return usage.NewLedger(usage.Price{
		PromptPer1K:     c.config.AI.PromptCostPer1K,
		CompletionPer1K: c.config.AI.CompletionCostPer1K,
	})
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDictionary returns the header keyword dictionary.
func (c *Container) GetDictionary() *keywords.Dictionary {
	return c.dictionary
}

// GetClassifier returns the account classifier.
func (c *Container) GetClassifier() *accounts.Classifier {
	return c.classifier
}

// GetParser returns the ledger parser.
func (c *Container) GetParser() *ledgerparser.Parser {
	return c.parser
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// GetAnalyst returns the AI analyst, or nil if AI is not enabled.
func (c *Container) GetAnalyst() aiclient.Analyst {
	return c.analyst
}

// Close releases the AI client, if it holds a connection.
func (c *Container) Close() error {
	if closer, ok := c.analyst.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close AI client: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
