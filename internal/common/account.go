package common

import (
	"path/filepath"
	"regexp"
	"strings"
)

// AccountIdentifier is an account name inferred from where a ledger came from.
type AccountIdentifier struct {
	Name   string // e.g. "보통예금"
	Source string // "sheet", "filename" or "default"
}

var (
	// "계정별원장_보통예금", "GL - Cash"
	ledgerPrefixPattern = regexp.MustCompile(`^(?i)(계정별원장|총계정원장|원장|general ledger|gl|ledger)\s*[-_: ]\s*`)
	// trailing "(110-123-456789)" or "[2024]"
	trailingQualifier = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]\s*$`)
	genericSheetName  = regexp.MustCompile(`^(?i)(sheet|시트)\s*\d*$`)
)

// ExtractAccountFromSheetName derives an account name from a per-account
// ledger sheet name such as "보통예금(110-123-456789)". Generic names like
// "Sheet1" yield an empty identifier.
func ExtractAccountFromSheetName(sheet string) AccountIdentifier {
	name := cleanAccountName(sheet)
	if name == "" || genericSheetName.MatchString(name) {
		return AccountIdentifier{Source: "default"}
	}
	return AccountIdentifier{Name: name, Source: "sheet"}
}

// ExtractAccountFromFilename derives an account name from a file such as
// "계정별원장_보통예금.xlsx".
func ExtractAccountFromFilename(filename string) AccountIdentifier {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if !ledgerPrefixPattern.MatchString(base) {
		return AccountIdentifier{Source: "default"}
	}
	name := cleanAccountName(base)
	if name == "" {
		return AccountIdentifier{Source: "default"}
	}
	return AccountIdentifier{Name: name, Source: "filename"}
}

func cleanAccountName(s string) string {
	s = strings.TrimSpace(s)
	s = ledgerPrefixPattern.ReplaceAllString(s, "")
	s = trailingQualifier.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
