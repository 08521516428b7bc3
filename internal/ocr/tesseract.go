package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by a local Tesseract installation through
// gosseract. The underlying client is created lazily on the first Recognize
// call, so constructing a Tesseract is free; the first recognition pays the
// initialization cost. A single mutex serializes recognitions because the
// client holds per-call image state.
type Tesseract struct {
	languages []string

	mu     sync.Mutex
	client *gosseract.Client
	closed bool
}

// NewTesseract returns an unopened Tesseract handle. With no languages given
// it loads the English and Indonesian models, the two-language vocabulary
// receipts in this domain need.
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng", "ind"}
	}
	return &Tesseract{languages: languages}
}

// Recognize runs OCR over a bitmap and reports the mean word confidence on
// Tesseract's 0-100 scale. There is no cancellation inside a single
// recognition; the context is only consulted before work starts.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, fmt.Errorf("%w: engine is closed", ErrRecognitionFailed)
	}
	if t.client == nil {
		client := gosseract.NewClient()
		if err := client.SetLanguage(t.languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: setting languages %v: %v", ErrRecognitionFailed, t.languages, err)
		}
		t.client = client
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("%w: loading image: %v", ErrRecognitionFailed, err)
	}

	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}

	return &Result{Text: text, Confidence: t.meanWordConfidence()}, nil
}

// meanWordConfidence averages per-word confidences for the image currently
// loaded in the client. Zero when Tesseract found no words.
func (t *Tesseract) meanWordConfidence() float64 {
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}

// Close releases the Tesseract client. Safe to call before the first
// recognition and safe to call twice.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}
