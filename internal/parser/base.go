// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"fjacquet/gl-audit/internal/common"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
)

// BaseParser provides common functionality for all parser implementations.
// Parsers embed it to inherit logger handling and CSV export:
//
//	type MyParser struct {
//		parser.BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger    logging.Logger
	delimiter rune
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{
		logger:    logging.OrDefault(logger),
		delimiter: common.DefaultDelimiter,
	}
}

// SetLogger implements the LoggerConfigurable interface.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SetDelimiter sets the CSV export delimiter. Zero keeps the current one.
func (b *BaseParser) SetDelimiter(delimiter rune) {
	if delimiter != 0 {
		b.delimiter = delimiter
	}
}

// WriteToCSV writes transactions using the shared CSV writer so every export
// has the same layout.
func (b *BaseParser) WriteToCSV(transactions []models.Transaction, csvFile string) error {
	return common.WriteTransactionsToCSV(transactions, csvFile, b.delimiter, b.logger)
}
