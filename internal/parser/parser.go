package parser

import (
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
)

// SheetParser turns one raw sheet grid into its canonical form.
//
// Implementations never fail on unrecognizable content: a sheet without a
// header yields an empty ParsedSheet with HeaderRow -1. Errors are reserved
// for invalid arguments.
type SheetParser interface {
	ParseSheet(name string, grid [][]models.Cell) (*models.ParsedSheet, error)
}

// LoggerConfigurable is implemented by components whose logger can be swapped.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// CSVWriter is implemented by parsers that can export their transactions.
type CSVWriter interface {
	WriteToCSV(transactions []models.Transaction, csvFile string) error
}

// FullParser combines the parser capabilities.
type FullParser interface {
	SheetParser
	LoggerConfigurable
	CSVWriter
}
