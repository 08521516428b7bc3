package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Money is an extracted monetary value with its currency tag.
type Money struct {
	Value    float64
	Currency string
}

// num is the shared numeric sub-pattern: digit groups separated by dots or
// commas, locale disambiguation happens in the per-family parsers.
const num = `\d+(?:[.,]\d+)*`

// currencyFamily holds the recognition patterns for one currency: a
// symbol-prefix form, an ISO-code-prefix form, and an ISO-code-suffix form,
// tried in that sub-order. Families themselves are tried in slice order, so
// both the family priority and the sub-order are data, not branching.
type currencyFamily struct {
	code     string
	patterns []*regexp.Regexp
	parse    func(s string) (float64, bool)
}

var currencyFamilies = []currencyFamily{
	{
		code: "USD",
		patterns: []*regexp.Regexp{
			// [^Ss] keeps a plain "$" from swallowing the tail of "S$".
			regexp.MustCompile(`(?:^|[^Ss])\$\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\bUSD\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\b(` + num + `)\s*USD\b`),
		},
		parse: parseWestern,
	},
	{
		code: "EUR",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`€\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\bEUR\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\b(` + num + `)\s*EUR\b`),
		},
		parse: parseEuropean,
	},
	{
		code: "GBP",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`£\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\bGBP\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\b(` + num + `)\s*GBP\b`),
		},
		parse: parseWestern,
	},
	{
		code: "SGD",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`S\$\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\bSGD\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\b(` + num + `)\s*SGD\b`),
		},
		parse: parseWestern,
	},
	{
		code: "IDR",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bRp\.?\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\bIDR\s*(` + num + `)`),
			regexp.MustCompile(`(?i)\b(` + num + `)\s*IDR\b`),
		},
		parse: parseIndonesian,
	},
}

// Generic tails for non-strict matching, when no currency marker is present.
var (
	westernTailRe    = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*\.\d{2})\s*$`)
	indonesianTailRe = regexp.MustCompile(`(\d` + `(?:[\d.,])*` + `\d|\d)\s*$`)
)

// parseWestern treats commas as thousand separators.
func parseWestern(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

// parseEuropean treats dots as thousand separators and the comma as the
// decimal separator: "1.234,56" -> 1234.56.
func parseEuropean(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// parseIndonesian disambiguates the dot: "50.000" is fifty thousand but
// "11.97" is eleven point ninety-seven. A single dot followed by one or two
// trailing digits reads as a Western decimal point; any other dot usage reads
// as thousand grouping. Commas switch the whole string to Western rules.
func parseIndonesian(s string) (float64, bool) {
	if strings.Contains(s, ",") {
		return parseWestern(s)
	}
	if strings.Contains(s, ".") {
		if strings.Count(s, ".") == 1 {
			frac := s[strings.Index(s, ".")+1:]
			if len(frac) >= 1 && len(frac) <= 2 {
				v, err := strconv.ParseFloat(s, 64)
				return v, err == nil
			}
		}
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// reasonable is the sanity filter that rejects implausible amounts, which is
// what ultimately catches account and phone numbers that slip past the
// exclude-keyword list. IDR (and untagged) values live in a much larger range
// than hard-currency values.
func reasonable(currency string, v float64) bool {
	if currency == "IDR" || currency == "" {
		return v >= 100 && v <= 50_000_000
	}
	return v >= 0.01 && v <= 50_000
}

// matchCurrency runs the currency pattern families against one line and
// returns the first match. In strict mode a currency symbol or ISO code is
// mandatory; otherwise two generic tail patterns pick up bare numbers at the
// end of the line.
func matchCurrency(line string, strict bool) *Money {
	for _, fam := range currencyFamilies {
		for _, re := range fam.patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v, ok := fam.parse(m[1]); ok && v > 0 {
				return &Money{Value: v, Currency: fam.code}
			}
		}
	}
	if strict {
		return nil
	}

	// No currency tag anywhere on the line. A trailing two-decimal number is
	// taken as USD only when it is small enough to be a plausible dollar
	// total; a trailing Indonesian-style number is taken as IDR when it
	// passes the sanity range.
	if m := westernTailRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseWestern(m[1]); ok && v > 0 && v < 10_000 {
			return &Money{Value: v, Currency: "USD"}
		}
	}
	if m := indonesianTailRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseIndonesian(m[1]); ok && reasonable("IDR", v) {
			return &Money{Value: v, Currency: "IDR"}
		}
	}
	return nil
}

// excludedLine reports whether the line names a non-price numeric field and
// must be skipped by both extraction phases.
func excludedLine(lower string) bool {
	_, found := containsAny(lower, excludeKeywords)
	return found
}

// Amount locates the receipt total and its currency. Phase A prefers lines
// carrying a total keyword, ranked by keyword priority with ties broken by
// line order. When no keyword line yields a value, Phase B falls back to the
// largest strictly currency-tagged value on the receipt — on most receipts the
// grand total is the largest single monetary figure, though OCR dropping the
// total line can make a large line item win instead. Returns nil when nothing
// plausible is found.
func Amount(rawText string) *Money {
	lines := strings.Split(rawText, "\n")

	// Phase A: keyword-guided.
	var (
		best     *Money
		bestRank int
	)
	for _, line := range lines {
		lower := strings.ToLower(line)
		if excludedLine(lower) {
			continue
		}
		rank, found := containsAny(lower, totalKeywords)
		if !found {
			continue
		}
		m := matchCurrency(line, false)
		if m == nil || !reasonable(m.Currency, m.Value) {
			continue
		}
		if best == nil || rank < bestRank {
			best = m
			bestRank = rank
		}
	}
	if best != nil {
		return best
	}

	// Phase B: strict scan, largest value wins.
	for _, line := range lines {
		lower := strings.ToLower(line)
		if excludedLine(lower) {
			continue
		}
		m := matchCurrency(line, true)
		if m == nil || !reasonable(m.Currency, m.Value) {
			continue
		}
		if best == nil || m.Value > best.Value {
			best = m
		}
	}
	return best
}
