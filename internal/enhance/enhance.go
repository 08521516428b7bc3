// Package enhance is the optional AI override stage: given the raw OCR text,
// a language model proposes structured fields that supersede the heuristic
// extraction when available. The heuristic result is always computed first
// and survives untouched when the enhancer is absent or fails.
package enhance

import (
	"context"

	"github.com/danutirta/resi-scan/internal/extract"
)

// Override is a structured field override proposed by the enhancer. Empty or
// zero fields mean "no opinion": they never clobber a heuristic value.
type Override struct {
	Merchant   string         `json:"merchant"`
	Date       string         `json:"date"`
	Amount     float64        `json:"amount"`
	Currency   string         `json:"currency"`
	Items      []extract.Item `json:"items"`
	Type       string         `json:"transaction_type"`
	Confidence float64        `json:"confidence"`
}

// Enhancer proposes field overrides from raw receipt text.
type Enhancer interface {
	Enhance(ctx context.Context, rawText string) (*Override, error)
	Close() error
}

// Apply merges an override into a heuristic result, producing a new result.
// The input result is not mutated; per-field, the override wins only where it
// actually says something.
func Apply(res *extract.Result, o *Override) *extract.Result {
	merged := *res
	if o == nil {
		return &merged
	}
	if o.Merchant != "" {
		m := o.Merchant
		merged.Merchant = &m
	}
	if o.Date != "" {
		d := o.Date
		merged.Date = &d
	}
	if o.Amount > 0 {
		a := o.Amount
		merged.Amount = &a
		if o.Currency != "" {
			c := o.Currency
			merged.Currency = &c
		}
	}
	if len(o.Items) > 0 {
		merged.Items = o.Items
	}
	switch extract.TransactionType(o.Type) {
	case extract.TypeIncome, extract.TypeExpense:
		merged.Type = extract.TransactionType(o.Type)
	}
	if o.Confidence > 0 && o.Confidence <= 1 {
		merged.Confidence = o.Confidence
	}
	return &merged
}
