package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/gl-audit/internal/aiclient"
	"fjacquet/gl-audit/internal/analysis"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/usage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const ledgerCSV = `총계정원장
일자,계정과목,적요,차변,대변
2024-01-05,보통예금,매출 입금,150000,0
2024-01-05,보통예금,매출 입금,150000,0
2024-02-11,보통예금,임차료,0,800000
[월계],,,300000,800000
`

func writeLedgerXLSX(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	rows := [][]interface{}{
		{"일자", "계정과목", "적요", "차변", "대변"},
		{"2024-03-01", "복리후생비", "식대", 42000, 0},
		{"2024-03-02", "미지급금", "카드대금", 0, 42000},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.WriteFile(filepath.Join(in, "cash.csv"), []byte(ledgerCSV), 0600))
	writeLedgerXLSX(t, filepath.Join(in, "expenses.xlsx"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("garbage"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "readme.md"), []byte("ignored"), 0600))
	return in, out
}

func newAnalyzer(opts analysis.Options, options ...analysis.Option) *analysis.Analyzer {
	return analysis.NewAnalyzer(logging.NewMockLogger(), opts, options...)
}

func TestProcessDirectory(t *testing.T) {
	in, out := setup(t)
	logger := logging.NewMockLogger()
	p := NewProcessor(newAnalyzer(analysis.DefaultOptions()), nil, logger, WithWorkers(2), WithCSVExport(true))

	results, _, err := p.ProcessDirectory(context.Background(), in, out, usage.NewLedger(usage.Price{}))
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := make(map[string]FileResult)
	for _, r := range results {
		byName[filepath.Base(r.Input)] = r
	}

	broken := byName["broken.xlsx"]
	assert.True(t, broken.Failed())
	assert.Empty(t, broken.Output)

	cash := byName["cash.csv"]
	require.False(t, cash.Failed(), "%v", cash.Err)
	assert.Equal(t, 1, cash.Analyzed)
	assert.Equal(t, 3, cash.Transactions)
	assert.Equal(t, 1, cash.Duplicates)
	assert.Equal(t, "2024-01-05_2024-02-11", cash.DateRange.String())
	assert.Equal(t, filepath.Join(out, "cash.csv.json"), cash.Output)
	assert.FileExists(t, cash.Output)
	require.Len(t, cash.CSVFiles, 1)
	assert.Equal(t, filepath.Join(out, "cash_cash.csv"), cash.CSVFiles[0])
	assert.FileExists(t, cash.CSVFiles[0])

	expenses := byName["expenses.xlsx"]
	require.False(t, expenses.Failed(), "%v", expenses.Err)
	assert.Equal(t, 2, expenses.Transactions)

	data, err := os.ReadFile(cash.Output) // #nosec G304 -- test file
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id"`)
	assert.True(t, logger.HasEntry("INFO", "Batch processing completed"))
}

func TestProcessDirectory_TextFormatAndUsage(t *testing.T) {
	in, out := setup(t)
	opts := analysis.DefaultOptions()
	opts.Review = true
	analyst := &aiclient.MockAnalyst{Reply: "ok"}
	p := NewProcessor(newAnalyzer(opts, analysis.WithAnalyst(analyst)), nil, logging.NewMockLogger(), WithFormat("text"))

	results, ledger, err := p.ProcessDirectory(context.Background(), in, out, usage.NewLedger(usage.Price{PromptPer1K: 1}))
	require.NoError(t, err)

	for _, r := range results {
		if !r.Failed() {
			assert.True(t, strings.HasSuffix(r.Output, ".txt"), r.Output)
		}
	}
	assert.Equal(t, 2, ledger.Total().Calls)
	assert.Greater(t, ledger.Total().Cost, 0.0)
}

func TestProcessDirectory_Errors(t *testing.T) {
	p := NewProcessor(newAnalyzer(analysis.DefaultOptions()), nil, logging.NewMockLogger())

	_, _, err := p.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir(), usage.Ledger{})
	assert.Error(t, err)

	results, _, err := p.ProcessDirectory(context.Background(), t.TempDir(), t.TempDir(), usage.Ledger{})
	assert.NoError(t, err)
	assert.Empty(t, results)

	bad := NewProcessor(newAnalyzer(analysis.DefaultOptions()), nil, logging.NewMockLogger(), WithFormat("xml"))
	_, _, err = bad.ProcessDirectory(context.Background(), t.TempDir(), t.TempDir(), usage.Ledger{})
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestProcessDirectory_Cancelled(t *testing.T) {
	in, out := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(newAnalyzer(analysis.DefaultOptions()), nil, logging.NewMockLogger(), WithWorkers(1))
	_, _, err := p.ProcessDirectory(ctx, in, out, usage.Ledger{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDateRange(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}
	a := DateRange{Start: d("2024-02-01"), End: d("2024-02-28")}
	b := DateRange{Start: d("2024-01-15"), End: d("2024-02-10")}

	assert.Equal(t, "2024-01-15_2024-02-28", a.Merge(b).String())
	assert.Equal(t, a, DateRange{}.Merge(a))
	assert.Equal(t, "", DateRange{}.String())
}

func TestFindDuplicates(t *testing.T) {
	txs := []models.Transaction{
		{Row: 2, Date: "2024-01-01", Account: "현금", Description: "식대", Debit: decimal.NewFromInt(100)},
		{Row: 3, Date: "2024-01-01", Account: "현금", Description: " 식대 ", Debit: decimal.RequireFromString("100.00")},
		{Row: 4, Date: "2024-01-01", Account: "현금", Description: "식대", Credit: decimal.NewFromInt(100)},
		{Row: 5, Date: "", Account: "현금", Description: "식대", Debit: decimal.NewFromInt(100)},
		{Row: 6, Date: "", Account: "현금", Description: "식대", Debit: decimal.NewFromInt(100)},
	}
	logger := logging.NewMockLogger()

	assert.Equal(t, 1, FindDuplicates(txs, logger))
	assert.True(t, logger.HasEntry("WARN", "Found potential duplicate transactions"))
}
