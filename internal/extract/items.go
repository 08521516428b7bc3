package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "2x Kopi Susu" / "2 x Kopi Susu" quantity prefix.
	quantityPrefixRe = regexp.MustCompile(`(?i)^(\d+)\s*x$`)

	trailingNumberRe = regexp.MustCompile(`^(.+?)\s+(\d[\d.,]*)$`)
)

// Items recovers itemized name/price/quantity rows in receipt order. A line
// is considered only when it is at least five characters long and carries no
// total/tax/discount keyword; address and date lines are skipped for the same
// reason they are skipped by the merchant extractor ("Jl. Sudirman No. 1"
// would otherwise read as an item priced 1). Rows whose trailing token does
// not parse to a positive price are dropped silently; one bad row never
// aborts the rest of the scan.
func Items(rawText string) []Item {
	items := []Item{}
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		lower := strings.ToLower(line)
		if _, skip := containsAny(lower, itemSkipKeywords); skip {
			continue
		}
		if isAddressOrDateLine(lower, line) {
			continue
		}

		m := trailingNumberRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		price, ok := parseIndonesian(m[2])
		if !ok || price <= 0 {
			continue
		}

		item := Item{Name: name, Price: price}
		if fields := strings.Fields(name); len(fields) > 1 {
			if qm := quantityPrefixRe.FindStringSubmatch(fields[0]); qm != nil {
				if q, err := strconv.Atoi(qm[1]); err == nil && q > 0 {
					item.Quantity = q
					item.Name = strings.TrimSpace(strings.Join(fields[1:], " "))
				}
			} else if len(fields) > 2 && strings.EqualFold(fields[1], "x") {
				if q, err := strconv.Atoi(fields[0]); err == nil && q > 0 {
					item.Quantity = q
					item.Name = strings.TrimSpace(strings.Join(fields[2:], " "))
				}
			}
		}
		if item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func isAddressOrDateLine(lower, line string) bool {
	for _, marker := range addressMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return dateLikeRe.MatchString(line)
}
