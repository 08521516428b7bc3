package enhance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// enhancePrompt asks the model for the same fields the heuristic engine
// extracts, so the override can be merged field-for-field.
const enhancePrompt = `You are analyzing raw OCR text from a photographed receipt. The text may mix English and Indonesian and contain recognition noise.

Extract the following and return ONLY valid JSON in this exact format:
{
  "merchant": "store name",
  "date": "YYYY-MM-DD",
  "amount": 0,
  "currency": "IDR",
  "items": [{"name": "item", "price": 0, "quantity": 1}],
  "transaction_type": "expense",
  "confidence": 0.0
}

Rules:
- merchant is the store or business name, not an address line
- date must be YYYY-MM-DD; Indonesian receipts write dates day-first
- amount is the grand total as a plain number; Indonesian amounts use dots as thousand separators ("45.000" is forty-five thousand)
- currency is a 3-letter ISO code
- transaction_type is "income" or "expense"
- confidence is your certainty between 0 and 1
- use null for any field you cannot find
- no text before or after the JSON, no markdown code blocks

Receipt text:
`

// Gemini implements Enhancer on Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini enhancer.
func NewGemini(apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{client: client, model: client.GenerativeModel(modelName)}, nil
}

// Enhance sends the raw text to the model and parses its JSON override. The
// call owns its own timeout budget, independent of the scan pipeline.
func (g *Gemini) Enhance(ctx context.Context, rawText string) (*Override, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(enhancePrompt+rawText))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	override, err := parseOverride(sb.String())
	if err != nil {
		return nil, fmt.Errorf("parsing override: %w", err)
	}
	return override, nil
}

// Close releases the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
