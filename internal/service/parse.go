package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var nonDigits = regexp.MustCompile(`\D`)

// parseMoney parses a monetary amount from spreadsheet text. Currency symbols
// and thousand separators are stripped first.
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	result, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse amount: %s", s)
	}
	return result, nil
}

// parseMoneyOrZero is parseMoney with the import default for optional amounts.
func parseMoneyOrZero(s string) float64 {
	result, err := parseMoney(s)
	if err != nil {
		return 0
	}
	return result
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	formats := []string{
		"2006-01-02",            // YYYY-MM-DD (ISO standard)
		"01/02/2006",            // MM/DD/YYYY (US format)
		"01/02/06",              // MM/DD/YY (short year)
		"01-02-2006",            // MM-DD-YYYY
		"2006/01/02",            // YYYY/MM/DD
		"01/02/2006 3:04:05 PM", // MM/DD/YYYY with time
		"Jan 02, 2006",          // Month DD, YYYY
		"02 Jan 2006",           // DD Month YYYY
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
