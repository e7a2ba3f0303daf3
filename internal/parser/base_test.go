package parser

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseParser(t *testing.T) {
	t.Run("with provided logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})

	t.Run("with nil logger uses default", func(t *testing.T) {
		baseParser := NewBaseParser(nil)

		assert.NotNil(t, baseParser.GetLogger())
	})
}

func TestBaseParser_SetLogger(t *testing.T) {
	t.Run("sets new logger", func(t *testing.T) {
		baseParser := NewBaseParser(nil)
		mockLog := logging.NewMockLogger()

		baseParser.SetLogger(mockLog)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})

	t.Run("ignores nil logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)

		baseParser.SetLogger(nil)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})
}

func TestBaseParser_WriteToCSV(t *testing.T) {
	t.Run("writes transactions with the configured delimiter", func(t *testing.T) {
		csvFile := filepath.Join(t.TempDir(), "out.csv")
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)
		baseParser.SetDelimiter(';')

		transactions := []models.Transaction{
			{Row: 3, Date: "2024-01-01", Account: "현금", Debit: decimal.NewFromFloat(100.5), Description: "Test transaction 1"},
			{Row: 4, Date: "2024-01-02", Account: "매출", Credit: decimal.NewFromFloat(50.25), Description: "Test transaction 2"},
		}

		require.NoError(t, baseParser.WriteToCSV(transactions, csvFile))
		assert.FileExists(t, csvFile)
		assert.True(t, mockLog.HasEntry("INFO", "Writing transactions to CSV file"))

		content, err := os.ReadFile(csvFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "3;2024-01-01;현금;;;Test transaction 1;100.50;0.00")
		assert.Contains(t, string(content), "Test transaction 2")
	})

	t.Run("handles nil transactions", func(t *testing.T) {
		baseParser := NewBaseParser(logging.NewMockLogger())

		err := baseParser.WriteToCSV(nil, filepath.Join(t.TempDir(), "out.csv"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot write nil transactions to CSV")
	})

	t.Run("handles empty transactions slice", func(t *testing.T) {
		csvFile := filepath.Join(t.TempDir(), "out.csv")
		baseParser := NewBaseParser(logging.NewMockLogger())

		require.NoError(t, baseParser.WriteToCSV([]models.Transaction{}, csvFile))
		assert.FileExists(t, csvFile)
	})
}

func TestBaseParser_InterfaceCompliance(t *testing.T) {
	var _ LoggerConfigurable = &BaseParser{}
	var _ CSVWriter = &BaseParser{}
}
