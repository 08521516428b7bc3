package extract

import (
	"regexp"
	"strings"
)

// typeRule is one entry in the classifier decision list: the first rule whose
// match function fires decides the transaction type.
type typeRule struct {
	result TransactionType
	match  func(lower string) bool
}

// Sign prefixes on IDR-style amounts ("+Rp50.000", "-400.000") are the
// strongest signal and come first. The dot-group requirement keeps numeric
// dates like 05-03-2024 from reading as a negative amount.
var (
	incomeSignRe  = regexp.MustCompile(`\+\s*rp|\+\d{1,3}(?:\.\d{3})+`)
	expenseSignRe = regexp.MustCompile(`-\s*rp|-\d{1,3}(?:\.\d{3})+`)

	incomeEnglishRe  = regexp.MustCompile(`received|income|credited|deposit`)
	expenseEnglishRe = regexp.MustCompile(`paid|payment|purchase|debit|spent|charge`)
)

var typeRules = []typeRule{
	{TypeIncome, func(lower string) bool { return incomeSignRe.MatchString(lower) }},
	{TypeExpense, func(lower string) bool { return expenseSignRe.MatchString(lower) }},
	{TypeIncome, func(lower string) bool { _, ok := containsAny(lower, incomeKeywordsID); return ok }},
	{TypeExpense, func(lower string) bool { _, ok := containsAny(lower, expenseKeywordsID); return ok }},
	{TypeIncome, func(lower string) bool { return incomeEnglishRe.MatchString(lower) }},
	{TypeExpense, func(lower string) bool { return expenseEnglishRe.MatchString(lower) }},
}

// ClassifyType decides income vs. expense from textual and sign cues over the
// whole text, first matching rule wins. Receipts are overwhelmingly records
// of spending, so the default is expense.
func ClassifyType(rawText string) TransactionType {
	lower := strings.ToLower(rawText)
	for _, rule := range typeRules {
		if rule.match(lower) {
			return rule.result
		}
	}
	return TypeExpense
}
