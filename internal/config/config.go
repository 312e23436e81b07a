package config

import (
	"fmt"
	"time"
)

type Config struct {
	Providers   ProvidersConfig   `yaml:"providers"`
	Quality     QualityConfig     `yaml:"quality"`
	Performance PerformanceConfig `yaml:"performance"`
	Generation  GenerationConfig  `yaml:"generation"`
	Document    DocumentConfig    `yaml:"document"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ProvidersConfig struct {
	Preference []string       `yaml:"preference"`
	OpenAI     ProviderConfig `yaml:"openai"`
	Gemini     ProviderConfig `yaml:"gemini"`
}

type ProviderConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
}

type QualityConfig struct {
	Threshold  float64 `yaml:"threshold"`
	MaxRetries int     `yaml:"max_retries"`
}

type PerformanceConfig struct {
	MaxConcurrent      int `yaml:"max_concurrent"`
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
}

// CallTimeout returns the per-call timeout as a duration.
func (p PerformanceConfig) CallTimeout() time.Duration {
	return time.Duration(p.CallTimeoutSeconds) * time.Second
}

type GenerationConfig struct {
	Audience       string `yaml:"audience"`
	Style          string `yaml:"style"`
	Language       string `yaml:"language"`
	MaxBullets     int    `yaml:"max_bullets"`
	MaxTitleLength int    `yaml:"max_title_length"`
}

type DocumentConfig struct {
	Format          string `yaml:"format"`
	MinSectionChars int    `yaml:"min_section_chars"`
	MaxSectionChars int    `yaml:"max_section_chars"`
	UseModelParser  bool   `yaml:"use_model_parser"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func knownProvider(name string) bool {
	return name == "openai" || name == "gemini"
}

func (c *Config) Validate() error {
	if len(c.Providers.Preference) == 0 {
		return fmt.Errorf("providers.preference is required")
	}
	for _, name := range c.Providers.Preference {
		if !knownProvider(name) {
			return fmt.Errorf("providers.preference contains unknown provider %q", name)
		}
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Quality.Threshold < 0 || c.Quality.Threshold > 1 {
		return fmt.Errorf("quality.threshold must be within [0,1]")
	}
	if c.Quality.MaxRetries < 0 {
		return fmt.Errorf("quality.max_retries must not be negative")
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}
	if c.Performance.CallTimeoutSeconds < 0 {
		return fmt.Errorf("performance.call_timeout_seconds must not be negative")
	}
	switch c.Document.Format {
	case "", "auto", "markdown", "plain":
	default:
		return fmt.Errorf("document.format must be auto, markdown or plain")
	}

	if c.Providers.OpenAI.APIKeyEnv == "" {
		c.Providers.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Providers.OpenAI.Model == "" {
		c.Providers.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Providers.Gemini.APIKeyEnv == "" {
		c.Providers.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Providers.Gemini.Model == "" {
		c.Providers.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Quality.Threshold == 0 {
		c.Quality.Threshold = 0.8
	}
	if c.Quality.MaxRetries == 0 {
		c.Quality.MaxRetries = 3
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 3
	}
	if c.Performance.CallTimeoutSeconds == 0 {
		c.Performance.CallTimeoutSeconds = 60
	}
	if c.Generation.Audience == "" {
		c.Generation.Audience = "general"
	}
	if c.Generation.Style == "" {
		c.Generation.Style = "professional"
	}
	if c.Generation.Language == "" {
		c.Generation.Language = "en"
	}
	if c.Generation.MaxBullets == 0 {
		c.Generation.MaxBullets = 5
	}
	if c.Generation.MaxTitleLength == 0 {
		c.Generation.MaxTitleLength = 60
	}
	if c.Document.Format == "" {
		c.Document.Format = "auto"
	}
	if c.Document.MinSectionChars == 0 {
		c.Document.MinSectionChars = 50
	}
	if c.Document.MaxSectionChars == 0 {
		c.Document.MaxSectionChars = 2000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
