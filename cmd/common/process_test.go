package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/gl-audit/internal/aiclient"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/config"
	"fjacquet/gl-audit/internal/container"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/store"
	"fjacquet/gl-audit/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerCSV = `총계정원장
일자,계정과목,적요,차변,대변
2024-01-05,보통예금,매출 입금,150000,0
2024-01-06,상품매출,매출,0,150000
2024-02-11,보통예금,임차료,0,800000
[월계],,,150000,950000
`

func newContainer(t *testing.T, opts ...container.Option) (*container.Container, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	opts = append([]container.Option{
		container.WithLogger(logger),
		container.WithVocabularyLoader(&store.MockVocabularyStore{}),
	}, opts...)
	c, err := container.NewContainer(config.Default(), opts...)
	require.NoError(t, err)
	return c, logger
}

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cash.csv")
	require.NoError(t, os.WriteFile(path, []byte(ledgerCSV), 0600))
	return path
}

func TestAnalyzeFile(t *testing.T) {
	c, _ := newContainer(t)
	input := writeLedger(t)

	rep, err := AnalyzeFile(context.Background(), c, Request{Input: input})
	require.NoError(t, err)
	require.Len(t, rep.Sheets, 1)
	assert.Equal(t, "cash", rep.Sheets[0].Sheet)
	assert.Equal(t, 1, rep.Analyzed())
	require.NotNil(t, rep.Sheets[0].Sample)
	assert.Equal(t, 3, rep.Sheets[0].Sample.Size())
}

func TestAnalyzeFile_Adjust(t *testing.T) {
	c, _ := newContainer(t)
	rep, err := AnalyzeFile(context.Background(), c, Request{
		Input:  writeLedger(t),
		Adjust: func(o *analysis.Options) { o.SampleTarget = 1 },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Sheets[0].Sample.Size())
}

func TestAnalyzeFile_SheetFilter(t *testing.T) {
	c, logger := newContainer(t)
	rep, err := AnalyzeFile(context.Background(), c, Request{Input: writeLedger(t), Sheets: []string{"other"}})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Analyzed())
	assert.Equal(t, analysis.ReasonNotSelected, rep.Sheets[0].Reason)
	assert.True(t, logger.HasEntry("WARN", "No sheet could be analyzed"))
}

func TestAnalyzeFile_WithReview(t *testing.T) {
	analyst := &aiclient.MockAnalyst{Name: "mock", Reply: "looks fine"}
	c, logger := newContainer(t, container.WithAnalyst(analyst))

	rep, err := AnalyzeFile(context.Background(), c, Request{Input: writeLedger(t)})
	require.NoError(t, err)
	require.NotNil(t, rep.Sheets[0].Review)
	assert.Equal(t, "looks fine", rep.Sheets[0].Review.Text)
	assert.Len(t, analyst.Prompts(), 1)
	assert.True(t, logger.HasEntry("INFO", "AI usage"))
}

func TestAnalyzeFile_Errors(t *testing.T) {
	c, _ := newContainer(t)
	ctx := context.Background()

	_, err := AnalyzeFile(ctx, c, Request{})
	assert.Error(t, err)

	_, err = AnalyzeFile(ctx, c, Request{Input: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)

	unsupported := filepath.Join(t.TempDir(), "ledger.pdf")
	require.NoError(t, os.WriteFile(unsupported, []byte("%PDF"), 0600))
	_, err = AnalyzeFile(ctx, c, Request{Input: unsupported})
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, "", []byte("hello"), nil))
	assert.Equal(t, "hello", buf.String())

	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteOutput(&buf, path, []byte("{}"), logger))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
	assert.True(t, logger.HasEntry("INFO", "Output written"))
}

func TestLogUsage(t *testing.T) {
	logger := logging.NewMockLogger()
	LogUsage(logger, usage.NewLedger(usage.Price{}))
	assert.Empty(t, logger.GetEntries())

	ledger := usage.NewLedger(usage.Price{}).Record(usage.Usage{Model: "m", PromptTokens: 10, CompletionTokens: 5})
	LogUsage(logger, ledger)
	assert.True(t, logger.HasEntry("INFO", "AI usage"))
}
