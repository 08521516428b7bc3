// Package ocr turns receipt photos into raw text.
//
// It owns the three steps that happen before field extraction: normalizing
// arbitrary input (data URIs, PDFs, HEIC photos) into a plain bitmap,
// best-effort photo preprocessing, and the text recognizer itself.
package ocr

import (
	"context"
	"errors"
)

// ErrRecognitionFailed is the one terminal failure of the scan pipeline: the
// recognizer could not produce any raw text. Everything downstream degrades
// to null fields instead of erroring.
var ErrRecognitionFailed = errors.New("text recognition failed")

// Result is the raw recognizer output.
type Result struct {
	Text       string
	Confidence float64 // recognizer-reported, 0..100
}

// Engine converts a bitmap into raw text plus an overall confidence score.
//
// Implementations are not required to support concurrent overlapping
// recognitions; batch callers must issue calls strictly sequentially against
// one handle. Close releases the underlying recognizer resources; nothing in
// this package triggers it implicitly.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (*Result, error)
	Close() error
}
