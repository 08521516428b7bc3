// Command resi-scan scans one or more receipt images from the command line
// and prints the extracted fields as JSON. Scans are recorded in the same
// history database resi-server serves.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/danutirta/resi-scan/internal/enhance"
	"github.com/danutirta/resi-scan/internal/ocr"
	"github.com/danutirta/resi-scan/internal/scan"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("resi-scan")
	var (
		dbPath       = fs.StringLong("db", "resi-scan.db", "Database file path")
		storagePath  = fs.StringLong("storage", "./receipts", "Storage directory path")
		languages    = fs.StringLong("languages", "eng+ind", "Tesseract languages, joined with '+'")
		maxWidth     = fs.IntLong("max-width", 1600, "Downscale images wider than this before recognition (0 disables)")
		enhancerType = fs.StringLong("enhancer", "", "AI enhancer: 'gemini', 'ollama', or empty to disable")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llama3", "Ollama model name")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RESI_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	files := fs.GetArgs()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: resi-scan [flags] <image> [image...]\n\n%s\n", ffhelp.Flags(fs))
		os.Exit(1)
	}

	db, err := scan.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := scan.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseract(strings.Split(*languages, "+")...)
	defer engine.Close()

	var enhancer enhance.Enhancer
	switch *enhancerType {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		gemini, err := enhance.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		enhancer = gemini
	case "ollama":
		ollama, err := enhance.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
		defer ollama.Close()
		enhancer = ollama
	case "":
		// Heuristics only.
	default:
		slog.Error("Invalid enhancer type", "type", *enhancerType, "valid", "gemini, ollama or empty")
		os.Exit(1)
	}

	service := scan.NewService(db, engine, store, enhancer, ocr.PreprocessOptions{MaxWidth: *maxWidth})

	// Ctrl-C stops the batch between images; the scan in flight finishes.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := make([]scan.BatchInput, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read file", "path", path, "error", err)
			os.Exit(1)
		}
		inputs = append(inputs, scan.BatchInput{
			Filename:    filepath.Base(path),
			Data:        data,
			ContentType: contentTypeFromExt(path),
		})
	}

	results := service.ScanBatch(ctx, inputs, func(done, total int) {
		fmt.Fprintf(os.Stderr, "Scanned %d/%d\n", done, total)
	})

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("Scan failed", "filename", r.Filename, "error", r.Err)
			continue
		}
		if err := encoder.Encode(r.Record); err != nil {
			slog.Error("Failed to encode result", "filename", r.Filename, "error", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func contentTypeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
