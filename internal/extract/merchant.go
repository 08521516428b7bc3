package extract

import (
	"regexp"
	"strings"
)

// Address markers and date shapes disqualify a line from being the merchant
// name. OCR output from Indonesian receipts very often has the street address
// ("Jl. Sudirman No. 1") directly under the store name.
var (
	addressMarkers = []string{"jl.", "jln.", "street", "road", "ave"}

	dateLikeRe = regexp.MustCompile(`\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`)

	merchantCharsRe = regexp.MustCompile(`[^A-Za-z0-9 '&-]`)
)

// Merchant returns a plausible merchant name from the top of the receipt, or
// nil if the text has no usable lines. It examines at most the first three
// lines longer than two characters; a line qualifies unless it starts with a
// digit, carries an address marker, or looks like a date. When none of the
// first three qualifies the very first surviving line is returned verbatim,
// address-like or not.
func Merchant(rawText string) *string {
	var survivors []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 2 {
			continue
		}
		survivors = append(survivors, line)
	}
	if len(survivors) == 0 {
		return nil
	}

	limit := 3
	if len(survivors) < limit {
		limit = len(survivors)
	}
	for _, line := range survivors[:limit] {
		if merchantCandidate(line) {
			cleaned := strings.TrimSpace(merchantCharsRe.ReplaceAllString(line, ""))
			return &cleaned
		}
	}

	// Nothing near the top looked like a name; best effort is the first line.
	first := survivors[0]
	return &first
}

func merchantCandidate(line string) bool {
	if line[0] >= '0' && line[0] <= '9' {
		return false
	}
	lower := strings.ToLower(line)
	for _, marker := range addressMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return !dateLikeRe.MatchString(line)
}
