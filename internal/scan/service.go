// Package scan orchestrates the receipt pipeline: input normalization, photo
// preprocessing, text recognition, heuristic field extraction, the optional
// AI override, and scan history.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danutirta/resi-scan/internal/enhance"
	"github.com/danutirta/resi-scan/internal/extract"
	"github.com/danutirta/resi-scan/internal/ocr"
)

// IDGenerator generates unique IDs for scan records.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// Service runs the scan pipeline and keeps history. The recognizer engine is
// an explicitly owned, injected handle; the service never creates or releases
// one itself.
type Service struct {
	db         DB
	engine     ocr.Engine
	enhancer   enhance.Enhancer // nil disables the override stage
	storage    Storage
	preprocess ocr.PreprocessOptions
	idGen      IDGenerator
	clock      TimeSource
}

// NewService creates a Service. enhancer may be nil.
func NewService(db DB, engine ocr.Engine, storage Storage, enhancer enhance.Enhancer, opts ocr.PreprocessOptions) *Service {
	return &Service{
		db:         db,
		engine:     engine,
		enhancer:   enhancer,
		storage:    storage,
		preprocess: opts,
		idGen:      uuidGenerator{},
		clock:      wallClock{},
	}
}

// NewServiceWithDeps creates a Service with custom ID and time dependencies
// for testing.
func NewServiceWithDeps(db DB, engine ocr.Engine, storage Storage, enhancer enhance.Enhancer, opts ocr.PreprocessOptions, idGen IDGenerator, clock TimeSource) *Service {
	s := NewService(db, engine, storage, enhancer, opts)
	s.idGen = idGen
	s.clock = clock
	return s
}

var (
	filenameNoiseRe = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename trims phone-generated filenames down to something storable.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	base = filenameNoiseRe.ReplaceAllString(base, "")
	base = strings.TrimSpace(spaceRunRe.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// Scan runs one image through the full pipeline and records the result.
// Extraction never fails on its own: a receipt the heuristics cannot read
// yields a record with mostly-null fields. The only terminal error is the
// recognizer failing to produce raw text at all.
func (s *Service) Scan(ctx context.Context, filename string, data []byte, contentType string) (*Record, error) {
	id := s.idGen.Generate()
	now := s.clock.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	normalized, err := ocr.NormalizeInput(data, contentType)
	if err != nil {
		// Best-effort: let the recognizer try the original bytes.
		slog.Warn("Input normalization failed, passing original through",
			"filename", filename, "content_type", contentType, "error", err)
		normalized = data
	}

	recognized, err := s.engine.Recognize(ctx, ocr.Preprocess(normalized, s.preprocess))
	if err != nil {
		slog.Error("Failed to recognize receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("recognizing receipt: %w", err)
	}

	result := extract.Receipt(recognized.Text, recognized.Confidence)

	enhanced := false
	if s.enhancer != nil {
		override, err := s.enhancer.Enhance(ctx, recognized.Text)
		if err != nil {
			slog.Warn("Enhancement failed, keeping heuristic result", "filename", filename, "error", err)
		} else {
			result = enhance.Apply(result, override)
			enhanced = true
		}
	}

	record := &Record{
		ID:          id,
		Filename:    savedPath,
		ContentType: contentType,
		Result:      result,
		Enhanced:    enhanced,
		CreatedAt:   now,
	}

	if err := s.db.SaveRecord(record); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving scan record: %w", err)
	}

	return record, nil
}

// BatchInput is one image in a batch scan.
type BatchInput struct {
	Filename    string
	Data        []byte
	ContentType string
}

// BatchResult pairs a batch input with its outcome.
type BatchResult struct {
	Filename string
	Record   *Record
	Err      error
}

// ScanBatch processes images strictly sequentially against the single
// recognizer handle, which is not safe for overlapping recognitions. progress
// (optional) receives cumulative counts after each image. Cancelling the
// context stops the batch between iterations; a recognition already in flight
// runs to completion.
func (s *Service) ScanBatch(ctx context.Context, inputs []BatchInput, progress func(done, total int)) []BatchResult {
	results := make([]BatchResult, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			results = append(results, BatchResult{Filename: in.Filename, Err: err})
			continue
		}
		record, err := s.Scan(ctx, in.Filename, in.Data, in.ContentType)
		results = append(results, BatchResult{Filename: in.Filename, Record: record, Err: err})
		if progress != nil {
			progress(i+1, len(inputs))
		}
	}
	return results
}

// GetRecord retrieves a scan record by ID.
func (s *Service) GetRecord(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting scan record: %w", err)
	}
	return record, nil
}

// ListRecords returns all scan records.
func (s *Service) ListRecords() ([]*Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing scan records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a scan record and its stored file.
func (s *Service) DeleteRecord(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting scan record for deletion: %w", err)
	}

	if err := s.storage.Delete(record.Filename); err != nil {
		slog.Warn("Failed to delete file", "filename", record.Filename, "error", err)
	}

	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting scan record: %w", err)
	}
	return nil
}

// GetRecordFile retrieves the original uploaded file for a scan.
func (s *Service) GetRecordFile(id string) ([]byte, string, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan record: %w", err)
	}

	data, err := s.storage.Get(record.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan file: %w", err)
	}
	return data, record.ContentType, nil
}
