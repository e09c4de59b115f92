package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is day zero of the spreadsheet serial date encoding. Serial 1 is
// 1900-01-01; the 1899-12-30 base absorbs the historical leap-year bug.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonAmount  = regexp.MustCompile(`[^0-9.]`)
	nonDigit   = regexp.MustCompile(`[^0-9]`)
)

// Fallback layouts for dates that match none of the structured patterns.
var genericDateFormats = []string{
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// NormalizeDate turns a raw spreadsheet cell into a calendar date at UTC
// midnight. Accepted encodings, in priority order: a numeric serial day-count,
// a day-first D/M/YYYY or D-M-YYYY string, ISO YYYY-MM-DD, then a handful of
// generic layouts. Anything else yields nil so the caller's own default
// applies; today's date is never substituted here.
func NormalizeDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Spreadsheet serial day-count. Constructed at UTC midnight so a local
	// timezone offset can never shift the result across a day boundary.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 || serial > 2958465 { // 9999-12-31
			return nil
		}
		t := excelEpoch.AddDate(0, 0, int(math.Floor(serial)))
		return &t
	}

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range components (31/02 rolls into
		// March); require the constructed date to read back exactly.
		if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
			return nil
		}
		return &t
	}

	if isoDateRe.MatchString(s) {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
		return nil
	}

	for _, format := range genericDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}

	return nil
}

// ParseAmount extracts a numeric amount from a raw cell that may carry
// currency symbols and thousand separators. Unparseable input yields 0,
// which the validator then rejects as a non-positive amount.
func ParseAmount(raw string) float64 {
	s := nonAmount.ReplaceAllString(raw, "")
	if s == "" {
		return 0
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// NormalizeAadhar strips formatting from an Aadhaar value and reports whether
// the remainder is the required 12 digits.
func NormalizeAadhar(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 12 || nonDigit.MatchString(s) {
		return s, false
	}
	return s, true
}
