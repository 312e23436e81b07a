package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/nguyentantai21042004/slideflow/internal/config"
	"github.com/nguyentantai21042004/slideflow/internal/document"
	"github.com/nguyentantai21042004/slideflow/internal/logger"
	"github.com/nguyentantai21042004/slideflow/internal/output"
	"github.com/nguyentantai21042004/slideflow/internal/pipeline"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
	"github.com/nguyentantai21042004/slideflow/internal/router"
	"github.com/nguyentantai21042004/slideflow/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	inputFile := flag.String("input", "", "process a single document and exit")
	providerName := flag.String("provider", "", "override the provider preference (openai or gemini)")
	validateOnly := flag.Bool("validate", false, "parse and validate the document, then exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *providerName != "" {
		cfg.Providers.Preference = []string{*providerName}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid provider override: %v\n", err)
			os.Exit(1)
		}
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Document to Presentation Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Providers: %s", strings.Join(cfg.Providers.Preference, ", "))
	log.Info(ctx, "Quality threshold: %.2f (max retries: %d)", cfg.Quality.Threshold, cfg.Quality.MaxRetries)
	log.Info(ctx, "Max concurrent sections: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	adapters, err := buildAdapters(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to configure providers: %v", err)
		os.Exit(1)
	}

	rt, err := router.New(adapters, log)
	if err != nil {
		log.Error(ctx, "Failed to create router: %v", err)
		os.Exit(1)
	}
	for _, name := range rt.Names() {
		if rt.HealthCheck(ctx, name) {
			log.Info(ctx, "Provider %s is reachable", name)
		} else {
			log.Warn(ctx, "Provider %s failed its health check", name)
		}
	}

	parser := document.New(cfg, rt, log)

	if *validateOnly {
		if *inputFile == "" {
			fmt.Fprintln(os.Stderr, "-validate requires -input")
			os.Exit(1)
		}
		os.Exit(validateDocument(ctx, *inputFile, parser))
	}

	pipe, err := pipeline.New(cfg, rt, log)
	if err != nil {
		log.Error(ctx, "Failed to create pipeline: %v", err)
		os.Exit(1)
	}
	writer := output.New(cfg, log)

	handler := func(ctx context.Context, path string) error {
		return processDocument(ctx, path, parser, pipe, writer, log)
	}

	if *inputFile != "" {
		if err := handler(ctx, *inputFile); err != nil {
			log.Error(ctx, "Failed to process %s: %v", *inputFile, err)
			os.Exit(1)
		}
		return
	}

	// One document at a time; each run fans out its own sections internally.
	w, err := watcher.New(cfg.Paths.Input, handler, log, 1)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(ctx, "Watcher error: %v", err)
		}
	}

	log.Info(ctx, "Pipeline stopped")
}

// processDocument drives one document through parse, validation, generation
// and artifact writing.
func processDocument(ctx context.Context, path string, parser document.Parser, pipe pipeline.Pipeline, writer output.Writer, log logger.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	parsed, err := parser.Parse(ctx, raw, path)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	validation := parser.Validate(parsed)
	for _, issue := range validation.Issues {
		log.Warn(ctx, "Document issue (%s): %s", issue.Type, issue.Message)
	}
	for _, warning := range validation.Warnings {
		log.Debug(ctx, "Document warning (%s): %s", warning.Type, warning.Message)
	}
	if !validation.IsValid {
		return fmt.Errorf("document failed validation (structure score %.2f)", validation.QualityScore)
	}

	result, err := pipe.Run(ctx, parsed.Document)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	dir, err := writer.WriteRun(ctx, parsed, result)
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	log.Info(ctx, "Presentation ready: %s", dir)
	return nil
}

// validateDocument parses and validates a document without generating
// anything, reporting to stdout. Returns the process exit code.
func validateDocument(ctx context.Context, path string, parser document.Parser) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read document: %v\n", err)
		return 1
	}

	parsed, err := parser.Parse(ctx, raw, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse document: %v\n", err)
		return 1
	}

	validation := parser.Validate(parsed)
	fmt.Printf("Document: %s\n", parsed.Info.Filename)
	fmt.Printf("Sections: %d\n", len(parsed.Document.Sections))
	fmt.Printf("Language: %s\n", parsed.Analysis.Language)
	fmt.Printf("Structure score: %.2f\n", validation.QualityScore)
	fmt.Printf("Estimated slides: %d (%d-%d seconds)\n",
		parsed.Estimates.EstimatedSlides, parsed.Estimates.DurationMinSec, parsed.Estimates.DurationMaxSec)

	for _, issue := range validation.Issues {
		fmt.Printf("Issue (%s): %s\n", issue.Type, issue.Message)
	}
	for _, warning := range validation.Warnings {
		fmt.Printf("Warning (%s): %s\n", warning.Type, warning.Message)
	}

	if !validation.IsValid {
		fmt.Println("Result: INVALID")
		return 1
	}
	fmt.Println("Result: OK")
	return 0
}

// buildAdapters creates one adapter per configured provider, skipping those
// without an API key in the environment.
func buildAdapters(ctx context.Context, cfg *config.Config, log logger.Logger) ([]provider.Adapter, error) {
	var adapters []provider.Adapter

	for _, name := range cfg.Providers.Preference {
		switch name {
		case "openai":
			key := os.Getenv(cfg.Providers.OpenAI.APIKeyEnv)
			if key == "" {
				log.Warn(ctx, "Skipping openai: %s is not set", cfg.Providers.OpenAI.APIKeyEnv)
				continue
			}
			a, err := provider.NewOpenAI(key, cfg.Providers.OpenAI.Model, cfg.Providers.OpenAI.BaseURL)
			if err != nil {
				return nil, fmt.Errorf("openai adapter: %w", err)
			}
			adapters = append(adapters, a)

		case "gemini":
			keys := splitKeys(os.Getenv(cfg.Providers.Gemini.APIKeyEnv))
			if len(keys) == 0 {
				log.Warn(ctx, "Skipping gemini: %s is not set", cfg.Providers.Gemini.APIKeyEnv)
				continue
			}
			a, err := provider.NewGemini(keys, cfg.Providers.Gemini.Model)
			if err != nil {
				return nil, fmt.Errorf("gemini adapter: %w", err)
			}
			adapters = append(adapters, a)
		}
	}

	if len(adapters) == 0 {
		return nil, fmt.Errorf("no configured provider has an API key set")
	}
	return adapters, nil
}

// splitKeys parses a comma separated API key list, so one environment
// variable can carry several keys to rotate through.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
