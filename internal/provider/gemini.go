package provider

import (
	"context"
	"fmt"
	"sync/atomic"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

type implGemini struct {
	apiKeys []string
	cursor  atomic.Int64
	model   string
	stats   callStats
}

// NewGemini creates an Adapter backed by the Gemini API. Multiple API keys
// rotate on rate-limit errors: the failed call still surfaces, the next call
// picks the next key.
func NewGemini(apiKeys []string, modelName string) (Adapter, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("gemini api key missing")
	}
	if modelName == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	return &implGemini{apiKeys: apiKeys, model: modelName}, nil
}

func (g *implGemini) Name() string {
	return "gemini"
}

func (g *implGemini) Stats() Stats {
	return g.stats.snapshot()
}

// Ping checks context liveness and the recent success rate. No billable call.
func (g *implGemini) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newError(g.Name(), "ping", err)
	}
	if !g.stats.healthy() {
		return &Error{
			Provider: g.Name(),
			Op:       "ping",
			Kind:     KindNetwork,
			Err:      fmt.Errorf("success rate below 80%% over %d requests", g.stats.snapshot().Requests),
		}
	}
	return nil
}

func (g *implGemini) ParseSections(ctx context.Context, documentText string) ([]model.Section, error) {
	raw, err := g.complete(ctx, systemSectionParser+"\n\n"+buildParseSectionsPrompt(documentText))
	if err != nil {
		g.stats.record(false)
		return nil, newError(g.Name(), "parse_sections", err)
	}

	sections, perr := parseSectionsPayload(g.Name(), "parse_sections", raw)
	g.stats.record(perr == nil)
	return sections, perr
}

func (g *implGemini) GenerateSlide(ctx context.Context, section model.Section, hints model.GenerationHints) (model.SlideDraft, error) {
	raw, err := g.complete(ctx, systemSlideWriter+"\n\n"+buildSlidePrompt(section, hints))
	if err != nil {
		g.stats.record(false)
		return model.SlideDraft{}, newError(g.Name(), "generate_slide", err)
	}

	draft, perr := parseSlidePayload(g.Name(), "generate_slide", raw, section)
	g.stats.record(perr == nil)
	return draft, perr
}

func (g *implGemini) ScoreSlide(ctx context.Context, draft model.SlideDraft, section model.Section, threshold float64) (model.QualityScore, error) {
	raw, err := g.complete(ctx, systemSlideReviewer+"\n\n"+buildScorePrompt(draft, section, threshold))
	if err != nil {
		g.stats.record(false)
		return model.QualityScore{}, newError(g.Name(), "score_slide", err)
	}

	score, perr := parseScorePayload(g.Name(), "score_slide", raw, threshold)
	g.stats.record(perr == nil)
	return score, perr
}

func (g *implGemini) OptimizeSlide(ctx context.Context, draft model.SlideDraft, score model.QualityScore, section model.Section) (model.SlideDraft, error) {
	raw, err := g.complete(ctx, systemSlideWriter+"\n\n"+buildOptimizePrompt(draft, score, section))
	if err != nil {
		g.stats.record(false)
		return model.SlideDraft{}, newError(g.Name(), "optimize_slide", err)
	}

	optimized, perr := parseSlidePayload(g.Name(), "optimize_slide", raw, section)
	g.stats.record(perr == nil)
	return optimized, perr
}

func (g *implGemini) GenerateNarration(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) (string, error) {
	raw, err := g.complete(ctx, systemNarrator+"\n\n"+buildNarrationPrompt(draft, hints))
	if err != nil {
		g.stats.record(false)
		return "", newError(g.Name(), "generate_narration", err)
	}

	text, perr := parseNarrationPayload(g.Name(), "generate_narration", raw)
	g.stats.record(perr == nil)
	return text, perr
}

// complete sends one prompt with the current API key. On rate-limit errors
// the cursor advances so the next call uses the next key; the failed call
// itself still surfaces to the caller.
func (g *implGemini) complete(ctx context.Context, prompt string) (string, error) {
	key := g.apiKeys[int(g.cursor.Load())%len(g.apiKeys)]

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		if classify(err) == KindRateLimit {
			g.cursor.Add(1)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
