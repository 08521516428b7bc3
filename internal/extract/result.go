// Package extract derives structured transaction candidates from raw OCR text.
//
// Every extractor in this package is a pure function over the same immutable
// text: no I/O, no shared state, safe to call in any order. Extractors never
// return errors; a field that cannot be found is simply nil in the assembled
// Result.
package extract

// TransactionType classifies a receipt as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Item is a single line item recovered from the receipt body.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity,omitempty"`
}

// Result is the transaction candidate extracted from one receipt scan.
// It is created once per scan and never mutated after construction.
type Result struct {
	RawText    string          `json:"raw_text"`
	Merchant   *string         `json:"merchant"`
	Date       *string         `json:"date"`   // YYYY-MM-DD
	Amount     *float64        `json:"amount"` // > 0 when present
	Currency   *string         `json:"currency"`
	Confidence float64         `json:"confidence"` // 0..1
	Items      []Item          `json:"items"`
	Type       TransactionType `json:"transaction_type"`
}

// Receipt runs all field extractors over the raw recognizer output and merges
// their results. ocrConfidence is the recognizer-reported certainty on a 0-100
// scale; it is rescaled to [0,1] and clamped.
func Receipt(rawText string, ocrConfidence float64) *Result {
	res := &Result{
		RawText:    rawText,
		Merchant:   Merchant(rawText),
		Date:       Date(rawText),
		Confidence: clampConfidence(ocrConfidence / 100),
		Items:      Items(rawText),
		Type:       ClassifyType(rawText),
	}
	if m := Amount(rawText); m != nil {
		res.Amount = &m.Value
		res.Currency = &m.Currency
	}
	return res
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
