package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePattern pairs a regex with a normalizer that maps its submatches to
// (year, month, day). Patterns are tried in fixed priority order against the
// whole text; the first match anywhere wins. Adding a locale is a table entry,
// not new branching.
type datePattern struct {
	re        *regexp.Regexp
	normalize func(m []string) (year, month, day int, ok bool)
}

var englishMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var indonesianMonths = map[string]int{
	"januari": 1, "februari": 2, "maret": 3, "april": 4, "mei": 5, "juni": 6,
	"juli": 7, "agustus": 8, "september": 9, "oktober": 10, "november": 11, "desember": 12,
}

var datePatterns = []datePattern{
	{
		// Ambiguous numeric dates are read day-first. This is a fixed policy,
		// not locale detection: MM/DD receipts will come out swapped.
		re: regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`),
		normalize: func(m []string) (int, int, int, bool) {
			d, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`),
		normalize: func(m []string) (int, int, int, bool) {
			y, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			d, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\b`),
		normalize: func(m []string) (int, int, int, bool) {
			mo, ok := englishMonths[strings.ToLower(m[2])]
			if !ok {
				return 0, 0, 0, false
			}
			d, _ := strconv.Atoi(m[1])
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\b`),
		normalize: func(m []string) (int, int, int, bool) {
			mo, ok := indonesianMonths[strings.ToLower(m[2])]
			if !ok {
				return 0, 0, 0, false
			}
			d, _ := strconv.Atoi(m[1])
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
}

// Date finds a transaction date anywhere in the text and normalizes it to
// zero-padded YYYY-MM-DD. Returns nil when no pattern family matches or the
// match is not a valid calendar date.
func Date(rawText string) *string {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(rawText, -1) {
			y, mo, d, ok := p.normalize(m)
			if !ok || !validCalendarDate(y, mo, d) {
				continue
			}
			s := fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
			return &s
		}
	}
	return nil
}

func validCalendarDate(y, mo, d int) bool {
	if y < 1 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == mo && t.Day() == d
}
