package container

import (
	"errors"
	"testing"

	"fjacquet/gl-audit/internal/accounts"
	"fjacquet/gl-audit/internal/aiclient"
	"fjacquet/gl-audit/internal/config"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/sampler"
	"fjacquet/gl-audit/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, cfg *config.Config, opts ...Option) (*Container, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	opts = append([]Option{WithLogger(logger), WithVocabularyLoader(&store.MockVocabularyStore{})}, opts...)
	c, err := NewContainer(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, logger
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func() *config.Config
		opts        []Option
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func() *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "valid config without AI",
			config: config.Default,
		},
		{
			name: "AI enabled without key",
			config: func() *config.Config {
				cfg := config.Default()
				cfg.AI.Enabled = true
				return cfg
			},
			expectError: true,
			errorMsg:    "failed to create AI client",
		},
		{
			name:        "vocabulary error",
			config:      config.Default,
			opts:        []Option{WithVocabularyLoader(&store.MockVocabularyStore{Err: errors.New("bad yaml")})},
			expectError: true,
			errorMsg:    "failed to load vocabulary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithLogger(logging.NewMockLogger()), WithVocabularyLoader(&store.MockVocabularyStore{})}, tt.opts...)
			c, err := NewContainer(tt.config(), opts...)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetParser())
			assert.NotNil(t, c.GetReportGenerator())
			assert.Nil(t, c.GetAnalyst())
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainer_AppliesVocabulary(t *testing.T) {
	loader := &store.MockVocabularyStore{Vocabulary: store.Vocabulary{
		Keywords: map[string][]string{"debit": {"차변(원)"}, "currency": {"통화"}},
		Titles:   []string{"보조원장"},
		Accounts: map[string][]string{"liability": {"임대보증금"}, "misc": {"기타"}},
	}}
	c, logger := newTestContainer(t, config.Default(), WithVocabularyLoader(loader))

	assert.Equal(t, 1, loader.Calls)
	assert.Contains(t, c.GetDictionary().Keywords(keywords.RoleDebit), "차변(원)")
	assert.Contains(t, c.GetDictionary().Titles(), "보조원장")
	assert.Contains(t, c.GetParser().Dictionary().Keywords(keywords.RoleDebit), "차변(원)")
	assert.Equal(t, accounts.Liability, c.GetClassifier().Classify("임대보증금"))
	assert.True(t, logger.HasEntry("WARN", "Ignoring unknown keyword role"))
	assert.True(t, logger.HasEntry("WARN", "Ignoring unknown account family"))
}

func TestContainer_AnalysisOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Sampling.Policy = "hybrid"
	cfg.Sampling.Target = 40
	cfg.Sampling.Seed = 7
	cfg.Analysis.TopN = 5
	cfg.Summary.TokenBudget = 1500
	c, _ := newTestContainer(t, cfg)

	opts, err := c.AnalysisOptions()
	require.NoError(t, err)
	assert.Equal(t, sampler.HybridPolicy{}, opts.Policy)
	assert.Equal(t, 40, opts.SampleTarget)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, 5, opts.TopN)
	assert.Equal(t, 1500, opts.TokenBudget)
	assert.Equal(t, cfg.Analysis.AnomalyConfig, opts.Anomaly)
	assert.False(t, opts.Review)

	cfg.Sampling.Policy = "random"
	_, err = c.AnalysisOptions()
	assert.Error(t, err)
}

func TestContainer_WithAnalyst(t *testing.T) {
	analyst := &aiclient.MockAnalyst{Name: "mock-model", Reply: "ok"}
	c, logger := newTestContainer(t, config.Default(), WithAnalyst(analyst))

	assert.Same(t, analyst, c.GetAnalyst())
	opts, err := c.AnalysisOptions()
	require.NoError(t, err)
	assert.True(t, opts.Review)
	assert.NotNil(t, c.NewAnalyzer(opts))
	assert.True(t, logger.HasEntry("INFO", "AI review enabled"))
}

func TestContainer_ReadOptionsAndLedger(t *testing.T) {
	cfg := config.Default()
	cfg.CSV.Delimiter = ";"
	cfg.CSV.Encoding = "euc-kr"
	cfg.AI.PromptCostPer1K = 0.5
	c, _ := newTestContainer(t, cfg)

	read := c.ReadOptions()
	assert.Equal(t, ';', read.Delimiter)
	assert.Equal(t, "euc-kr", read.Encoding)

	ledger := c.NewUsageLedger()
	assert.True(t, ledger.IsEmpty())
	assert.Equal(t, 0.5, ledger.Price().PromptPer1K)

	opts, err := c.AnalysisOptions()
	require.NoError(t, err)
	assert.NotNil(t, c.NewProcessor(c.NewAnalyzer(opts)))
}
