package provider

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

type implOpenAI struct {
	model string
	opts  []option.RequestOption
	stats callStats
}

// NewOpenAI creates an Adapter backed by the OpenAI chat completions API.
// baseURL may point at any OpenAI-compatible endpoint.
func NewOpenAI(apiKey, modelName, baseURL string) (Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	if modelName == "" {
		return nil, fmt.Errorf("openai model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &implOpenAI{model: modelName, opts: opts}, nil
}

func (o *implOpenAI) Name() string {
	return "openai"
}

func (o *implOpenAI) Stats() Stats {
	return o.stats.snapshot()
}

// Ping checks context liveness and the recent success rate. No billable call.
func (o *implOpenAI) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newError(o.Name(), "ping", err)
	}
	if !o.stats.healthy() {
		return &Error{
			Provider: o.Name(),
			Op:       "ping",
			Kind:     KindNetwork,
			Err:      fmt.Errorf("success rate below 80%% over %d requests", o.stats.snapshot().Requests),
		}
	}
	return nil
}

func (o *implOpenAI) ParseSections(ctx context.Context, documentText string) ([]model.Section, error) {
	raw, err := o.complete(ctx, systemSectionParser, buildParseSectionsPrompt(documentText))
	if err != nil {
		o.stats.record(false)
		return nil, newError(o.Name(), "parse_sections", err)
	}

	sections, perr := parseSectionsPayload(o.Name(), "parse_sections", raw)
	o.stats.record(perr == nil)
	return sections, perr
}

func (o *implOpenAI) GenerateSlide(ctx context.Context, section model.Section, hints model.GenerationHints) (model.SlideDraft, error) {
	raw, err := o.complete(ctx, systemSlideWriter, buildSlidePrompt(section, hints))
	if err != nil {
		o.stats.record(false)
		return model.SlideDraft{}, newError(o.Name(), "generate_slide", err)
	}

	draft, perr := parseSlidePayload(o.Name(), "generate_slide", raw, section)
	o.stats.record(perr == nil)
	return draft, perr
}

func (o *implOpenAI) ScoreSlide(ctx context.Context, draft model.SlideDraft, section model.Section, threshold float64) (model.QualityScore, error) {
	raw, err := o.complete(ctx, systemSlideReviewer, buildScorePrompt(draft, section, threshold))
	if err != nil {
		o.stats.record(false)
		return model.QualityScore{}, newError(o.Name(), "score_slide", err)
	}

	score, perr := parseScorePayload(o.Name(), "score_slide", raw, threshold)
	o.stats.record(perr == nil)
	return score, perr
}

func (o *implOpenAI) OptimizeSlide(ctx context.Context, draft model.SlideDraft, score model.QualityScore, section model.Section) (model.SlideDraft, error) {
	raw, err := o.complete(ctx, systemSlideWriter, buildOptimizePrompt(draft, score, section))
	if err != nil {
		o.stats.record(false)
		return model.SlideDraft{}, newError(o.Name(), "optimize_slide", err)
	}

	optimized, perr := parseSlidePayload(o.Name(), "optimize_slide", raw, section)
	o.stats.record(perr == nil)
	return optimized, perr
}

func (o *implOpenAI) GenerateNarration(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) (string, error) {
	raw, err := o.complete(ctx, systemNarrator, buildNarrationPrompt(draft, hints))
	if err != nil {
		o.stats.record(false)
		return "", newError(o.Name(), "generate_narration", err)
	}

	text, perr := parseNarrationPayload(o.Name(), "generate_narration", raw)
	o.stats.record(perr == nil)
	return text, perr
}

// complete sends one system+user exchange and returns the raw answer text.
func (o *implOpenAI) complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
