package ocr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// NormalizeInput accepts the three input shapes the pipeline supports — a
// bitmap, raw file bytes, or a data URI — and returns plain PNG bytes ready
// for preprocessing. PDFs are rendered (first page; receipts are almost
// always single-page) and HEIC photos are decoded with a pure-Go decoder,
// since the standard image package knows neither.
func NormalizeInput(data []byte, contentType string) ([]byte, error) {
	if uriData, uriType, ok := decodeDataURI(data); ok {
		data, contentType = uriData, uriType
	}

	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	switch {
	case mimeType == "application/pdf":
		return renderPDFPage(data)
	case mimeType == "image/png" && !isHEICData(data):
		return data, nil
	default:
		return decodeToPNG(data, mimeType)
	}
}

// decodeDataURI unwraps "data:<mime>;base64,<payload>" inputs.
func decodeDataURI(data []byte) ([]byte, string, bool) {
	const scheme = "data:"
	if !bytes.HasPrefix(data, []byte(scheme)) {
		return nil, "", false
	}
	s := string(data)
	comma := strings.Index(s, ",")
	if comma < 0 {
		return nil, "", false
	}
	meta := s[len(scheme):comma]
	payload := s[comma+1:]

	mimeType, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(meta, "base64") {
		return []byte(payload), mimeType, true
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return decoded, mimeType, true
}

// renderPDFPage rasterizes the first page of a PDF receipt to PNG.
func renderPDFPage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

// decodeToPNG decodes any supported image format to PNG bytes.
func decodeToPNG(data []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICData(data) || isHEICMime(mimeType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICData sniffs the ftyp box brands iPhone photos carry.
func isHEICData(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMime(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
