package provider

import (
	"context"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Adapter defines the uniform capability surface over one generation backend.
// Adapters never retry internally; every failure surfaces immediately as an
// *Error so the quality loop owns all retry and fallback policy.
type Adapter interface {
	// Name returns the adapter's configured name (e.g. "openai").
	Name() string

	// Ping is a cheap liveness probe: configuration and recent success rate
	// only, never a billable generation call.
	Ping(ctx context.Context) error

	// Stats returns the adapter's request counters.
	Stats() Stats

	// ParseSections splits raw document text into ordered sections. Only used
	// when model-backed parsing is enabled; mechanical parsing is the default.
	ParseSections(ctx context.Context, documentText string) ([]model.Section, error)

	// GenerateSlide produces a draft for one section. Single shot.
	GenerateSlide(ctx context.Context, section model.Section, hints model.GenerationHints) (model.SlideDraft, error)

	// ScoreSlide reviews a draft against its source section. LLM-backed
	// scoring is noisy; identical inputs may score differently.
	ScoreSlide(ctx context.Context, draft model.SlideDraft, section model.Section, threshold float64) (model.QualityScore, error)

	// OptimizeSlide rewrites a failing draft guided by the score's issues.
	// Returns a new draft, never mutates the input.
	OptimizeSlide(ctx context.Context, draft model.SlideDraft, score model.QualityScore, section model.Section) (model.SlideDraft, error)

	// GenerateNarration writes the spoken text for a finished slide.
	// Never scored, no quality gate.
	GenerateNarration(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) (string, error)
}
