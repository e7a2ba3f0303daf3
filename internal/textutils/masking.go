// Package textutils provides text manipulation utilities.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
)

// SensitiveAccountKeywords identify deposit and loan accounts whose
// descriptions tend to carry bank account numbers.
var SensitiveAccountKeywords = []string{"예금", "적금", "대출", "차입금", "deposit", "loan", "savings"}

const (
	minMaskedDigits = 6
	keptDigits      = 4
)

var (
	accountNumberPattern = regexp.MustCompile(`\d[\d-]*\d`)
	isoDatePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsSensitiveAccount reports whether an account name belongs to the
// deposit/loan family.
func IsSensitiveAccount(account string) bool {
	n := strings.ToLower(strings.Join(strings.Fields(account), ""))
	if n == "" {
		return false
	}
	for _, kw := range SensitiveAccountKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// MaskAccountNumbers replaces every digit of account-number-like substrings
// (at least six digits, hyphens allowed) with '*', keeping the last four
// digits and the hyphen layout: "123-4567-1234" becomes "***-****-1234".
func MaskAccountNumbers(s string) string {
	return accountNumberPattern.ReplaceAllStringFunc(s, func(m string) string {
		if isoDatePattern.MatchString(m) || countDigits(m) < minMaskedDigits {
			return m
		}
		return maskDigits(m)
	})
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func maskDigits(s string) string {
	toMask := countDigits(s) - keptDigits
	out := []rune(s)
	for i, r := range out {
		if toMask == 0 {
			break
		}
		if unicode.IsDigit(r) {
			out[i] = '*'
			toMask--
		}
	}
	return string(out)
}
