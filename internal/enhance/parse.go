package enhance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseOverride recovers the JSON override from a model response. Models
// occasionally wrap the object in markdown fences or chatter around it, so
// the object boundaries are located explicitly before unmarshaling.
func parseOverride(text string) (*Override, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var o Override
	if err := json.Unmarshal([]byte(text[start:end+1]), &o); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	sanitize(&o)
	return &o, nil
}

// sanitize drops override fields the pipeline cannot trust: malformed dates,
// non-ISO currency codes, non-positive prices, unknown transaction types.
// A dropped field simply leaves the heuristic value in place.
func sanitize(o *Override) {
	o.Merchant = strings.TrimSpace(o.Merchant)

	if o.Date != "" {
		if _, err := time.Parse("2006-01-02", o.Date); err != nil {
			o.Date = ""
		}
	}

	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	if len(o.Currency) != 3 {
		o.Currency = ""
	}

	kept := o.Items[:0]
	for _, item := range o.Items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Price <= 0 || item.Quantity < 0 {
			continue
		}
		kept = append(kept, item)
	}
	o.Items = kept

	switch strings.ToLower(strings.TrimSpace(o.Type)) {
	case "income":
		o.Type = "income"
	case "expense":
		o.Type = "expense"
	default:
		o.Type = ""
	}

	if o.Confidence < 0 || o.Confidence > 1 {
		o.Confidence = 0
	}
}
