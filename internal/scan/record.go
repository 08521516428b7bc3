package scan

import (
	"time"

	"github.com/danutirta/resi-scan/internal/extract"
)

// Record is one completed scan: the extraction result plus bookkeeping about
// the uploaded file. This is the shape the downstream transaction API
// consumes.
type Record struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
	Result      *extract.Result `json:"result"`
	Enhanced    bool            `json:"enhanced"`
	CreatedAt   time.Time       `json:"created_at"`
}
