// Package common provides shared functionality across the ledger parsers and
// report writers.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is used when a caller passes a zero delimiter.
const DefaultDelimiter = ','

// MarshalCSV writes rows as CSV with a header line derived from the csv struct
// tags of T.
func MarshalCSV[T any](w io.Writer, rows []T, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// transactionRow fixes amounts to two decimals for export.
type transactionRow struct {
	Row         int    `csv:"row"`
	Date        string `csv:"date"`
	Account     string `csv:"account"`
	Voucher     string `csv:"voucher"`
	Vendor      string `csv:"vendor"`
	Description string `csv:"description"`
	Debit       string `csv:"debit"`
	Credit      string `csv:"credit"`
}

// WriteTransactionsToCSV writes the canonical transaction table to csvFile,
// creating parent directories as needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	logger = logging.OrDefault(logger)

	logger.Info("Writing transactions to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- output path chosen by the user
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := MarshalTransactions(file, transactions, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return err
	}

	logger.Info("Successfully wrote transactions to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))
	return nil
}

// MarshalTransactions writes the canonical transaction table to w.
func MarshalTransactions(w io.Writer, transactions []models.Transaction, delimiter rune) error {
	rows := make([]transactionRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = transactionRow{
			Row:         tx.Row,
			Date:        tx.Date,
			Account:     tx.Account,
			Voucher:     tx.Voucher,
			Vendor:      tx.Vendor,
			Description: tx.Description,
			Debit:       tx.Debit.StringFixed(2),
			Credit:      tx.Credit.StringFixed(2),
		}
	}
	return MarshalCSV(w, rows, delimiter)
}
