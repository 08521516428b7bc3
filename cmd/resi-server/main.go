package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
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

	fs := ff.NewFlagSet("resi-server")
	var (
		port         = fs.IntLong("port", 8080, "HTTP server port")
		dbPath       = fs.StringLong("db", "resi-scan.db", "Database file path")
		storagePath  = fs.StringLong("storage", "./receipts", "Storage directory path")
		languages    = fs.StringLong("languages", "eng+ind", "Tesseract languages, joined with '+'")
		maxWidth     = fs.IntLong("max-width", 1600, "Downscale images wider than this before recognition (0 disables)")
		enhancerType = fs.StringLong("enhancer", "", "AI enhancer: 'gemini', 'ollama', or empty to disable")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llama3", "Ollama model name")
		authUser     = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass     = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
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

	slog.Info("Initializing database...")
	db, err := scan.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Initializing storage...")
	store, err := scan.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseract(strings.Split(*languages, "+")...)
	defer engine.Close()

	// The enhancer is optional: without one the heuristic result stands.
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
		slog.Info("Initializing Gemini enhancer...", "model", *geminiModel)
		gemini, err := enhance.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		enhancer = gemini
	case "ollama":
		slog.Info("Initializing Ollama enhancer...", "url", *ollamaURL, "model", *ollamaModel)
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

	basicAuth := scan.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := scan.NewServer(service, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
