package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"openai", "gemini"},
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name: "missing preference",
			config: Config{
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown provider in preference",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"mistral"},
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "missing paths",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"openai"},
				},
				Paths: PathsConfig{},
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"openai"},
				},
				Quality: QualityConfig{
					Threshold: 1.2,
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "negative retries",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"openai"},
				},
				Quality: QualityConfig{
					MaxRetries: -1,
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
		{
			name: "bad document format",
			config: Config{
				Providers: ProvidersConfig{
					Preference: []string{"openai"},
				},
				Document: DocumentConfig{
					Format: "pdf",
				},
				Paths: PathsConfig{
					Input:  "data/input",
					Output: "data/output",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Providers: ProvidersConfig{
			Preference: []string{"gemini"},
		},
		Paths: PathsConfig{
			Input:  "data/input",
			Output: "data/output",
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Quality.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", cfg.Quality.Threshold)
	}
	if cfg.Quality.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want 3", cfg.Quality.MaxRetries)
	}
	if cfg.Performance.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %v, want 3", cfg.Performance.MaxConcurrent)
	}
	if cfg.Performance.CallTimeoutSeconds != 60 {
		t.Errorf("CallTimeoutSeconds = %v, want 60", cfg.Performance.CallTimeoutSeconds)
	}
	if cfg.Providers.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %v, want gemini-2.5-flash", cfg.Providers.Gemini.Model)
	}
	if cfg.Providers.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("OpenAI.APIKeyEnv = %v, want OPENAI_API_KEY", cfg.Providers.OpenAI.APIKeyEnv)
	}
	if cfg.Document.Format != "auto" {
		t.Errorf("Document.Format = %v, want auto", cfg.Document.Format)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
providers:
  preference: [openai, gemini]
  openai:
    model: "gpt-4o-mini"
  gemini:
    model: "gemini-2.5-flash"

quality:
  threshold: 0.75
  max_retries: 2

performance:
  max_concurrent: 2
  call_timeout_seconds: 30

paths:
  input: "data/input"
  output: "data/output"

logging:
  level: "info"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test loading
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Quality.Threshold != 0.75 {
		t.Errorf("Threshold = %v, want %v", cfg.Quality.Threshold, 0.75)
	}

	if cfg.Quality.MaxRetries != 2 {
		t.Errorf("MaxRetries = %v, want %v", cfg.Quality.MaxRetries, 2)
	}

	if cfg.Paths.Input != "data/input" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "data/input")
	}

	if got := cfg.Performance.CallTimeout().Seconds(); got != 30 {
		t.Errorf("CallTimeout = %vs, want 30s", got)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
