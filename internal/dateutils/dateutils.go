// Package dateutils parses the many shapes a ledger date cell can take:
// native dates, formatted strings, year-less month/day strings and Excel
// 1900-epoch serial numbers.
package dateutils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/gl-audit/internal/models"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutDotted   = "2006.01.02"
	DateLayoutSlashed  = "2006/01/02"
	DateLayoutCompact  = "20060102"
	DateLayoutKorean   = "2006년 1월 2일"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	MonthLayout        = "2006-01"
)

// CommonFormats is the ordered list of layouts tried for full date strings.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutDotted,
	DateLayoutSlashed,
	"2006-1-2",
	"2006.1.2",
	"2006/1/2",
	DateLayoutKorean,
	"2006년 01월 02일",
	DateLayoutFull,
	"2006-01-02T15:04:05Z07:00",
	DateLayoutCompact,
	DateLayoutEuropean,
	DateLayoutUS,
}

// Excel serial numbers are accepted only inside this open interval.
const (
	minExcelSerial = 1
	maxExcelSerial = 50000
)

var (
	excelEpoch      = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	monthDayPattern = regexp.MustCompile(`^(\d{1,2})\s*[/-]\s*(\d{1,2})$`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// ParseDate attempts to parse a date string using CommonFormats and returns
// the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseMonthDay parses "M/D" or "M-D" strings that carry no year. The year is
// taken from now, and the result must round-trip (so "2/30" is rejected
// rather than rolling over into March).
func ParseMonthDay(s string, now time.Time) (time.Time, bool) {
	m := monthDayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ExcelSerialToTime converts an Excel 1900-epoch serial number to a UTC date.
// Serials outside (1, 50000) are rejected.
func ExcelSerialToTime(serial float64) (time.Time, bool) {
	if serial <= minExcelSerial || serial >= maxExcelSerial || math.IsNaN(serial) {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	t := excelEpoch.AddDate(0, 0, int(days))
	return t, true
}

// ParseCell interprets a ledger cell as a date. now supplies the year for
// year-less strings.
func ParseCell(c models.Cell, now time.Time) (time.Time, bool) {
	switch c.Kind {
	case models.CellDate:
		return c.Date, true
	case models.CellNumber:
		if t, ok := ExcelSerialToTime(c.Number); ok {
			return t, true
		}
		if c.Number == math.Trunc(c.Number) && c.Number >= 19000101 && c.Number <= 21001231 {
			if t, err := time.Parse(DateLayoutCompact, strconv.FormatInt(int64(c.Number), 10)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case models.CellText:
		return ParseString(c.Text, now)
	default:
		return time.Time{}, false
	}
}

// ParseString interprets a free-form date string.
func ParseString(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSuffix(CleanDateString(s), ".")
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := ParseMonthDay(s, now); ok {
		return t, true
	}
	if t, _, err := ParseDate(s); err == nil {
		return t, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return ExcelSerialToTime(f)
	}
	return time.Time{}, false
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthKey formats the YYYY-MM bucket of a date.
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return spacePattern.ReplaceAllString(dateStr, " ")
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}
