package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/slideflow/internal/model"
	"github.com/nguyentantai21042004/slideflow/pkg/llmtext"
)

type slidePayload struct {
	Title        string   `json:"title"`
	Bullets      []string `json:"bullets"`
	SpeakerNotes string   `json:"speaker_notes"`
}

// parseSlidePayload decodes a generate/optimize response into a draft bound
// to its source section. An empty title falls back to the section title; a
// slide without bullets is a bad response.
func parseSlidePayload(providerName, op, raw string, section model.Section) (model.SlideDraft, error) {
	cleaned := llmtext.ExtractJSON(llmtext.StripFences(raw))

	var p slidePayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return model.SlideDraft{}, badResponse(providerName, op, fmt.Errorf("decode slide: %w", err))
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = section.Title
	}

	bullets := make([]string, 0, len(p.Bullets))
	for _, b := range p.Bullets {
		if b = strings.TrimSpace(b); b != "" {
			bullets = append(bullets, b)
		}
	}
	if len(bullets) == 0 {
		return model.SlideDraft{}, badResponse(providerName, op, fmt.Errorf("slide has no bullets"))
	}

	return model.SlideDraft{
		Title:         title,
		Bullets:       bullets,
		SpeakerNotes:  strings.TrimSpace(p.SpeakerNotes),
		SourceSection: section.Title,
	}, nil
}

// parseScorePayload decodes a scoring response. Passed is always recomputed
// from the threshold, whatever the model claims.
func parseScorePayload(providerName, op, raw string, threshold float64) (model.QualityScore, error) {
	cleaned := llmtext.ExtractJSON(llmtext.StripFences(raw))

	var score model.QualityScore
	if err := json.Unmarshal([]byte(cleaned), &score); err != nil {
		return model.QualityScore{}, badResponse(providerName, op, fmt.Errorf("decode score: %w", err))
	}

	return score.Finalize(threshold), nil
}

type sectionsPayload struct {
	Sections []struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Level int    `json:"level"`
	} `json:"sections"`
}

// parseSectionsPayload decodes a model-backed parsing response into ordered
// sections.
func parseSectionsPayload(providerName, op, raw string) ([]model.Section, error) {
	cleaned := llmtext.ExtractJSON(llmtext.StripFences(raw))

	var p sectionsPayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, badResponse(providerName, op, fmt.Errorf("decode sections: %w", err))
	}
	if len(p.Sections) == 0 {
		return nil, badResponse(providerName, op, fmt.Errorf("no sections in response"))
	}

	sections := make([]model.Section, 0, len(p.Sections))
	for i, s := range p.Sections {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}
		level := s.Level
		if level < 1 {
			level = 1
		}
		sections = append(sections, model.Section{
			Title: title,
			Body:  strings.TrimSpace(s.Body),
			Level: level,
			Order: i,
		})
	}
	return sections, nil
}

// parseNarrationPayload keeps narration as plain text; an empty response is
// a bad response.
func parseNarrationPayload(providerName, op, raw string) (string, error) {
	text := strings.TrimSpace(llmtext.StripFences(raw))
	if text == "" {
		return "", badResponse(providerName, op, fmt.Errorf("empty narration"))
	}
	return text, nil
}
