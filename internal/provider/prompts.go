package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/slideflow/internal/model"
	"github.com/nguyentantai21042004/slideflow/pkg/llmtext"
)

// Prompt size caps keep token usage bounded on long inputs.
const (
	maxSectionPromptChars  = 3000
	maxDocumentPromptChars = 12000
)

const systemSlideWriter = `You are a presentation designer turning document sections into concise slides. Respond with strict JSON only, no markdown fences, no commentary.`

const slidePromptTemplate = `Create one presentation slide from the document section below.

Audience: %s
Style: %s
Language: %s
This is slide %d of %d in "%s".

Rules:
- Title: at most %d characters, no trailing punctuation
- Bullets: at most %d, each a short standalone statement
- Speaker notes: 2-3 sentences expanding on the bullets

Section title: %s
Section content:
---
%s
---

Respond with JSON in exactly this shape:
{"title": "...", "bullets": ["..."], "speaker_notes": "..."}`

const systemSlideReviewer = `You are a strict presentation quality reviewer. Respond with strict JSON only, no markdown fences, no commentary.`

const scorePromptTemplate = `Score the slide below against its source section on four dimensions, each a float between 0.0 and 1.0:
- accuracy: does the slide faithfully represent the source?
- coherence: do title, bullets and notes form one clear message?
- clarity: is the wording simple and direct?
- completeness: are the section's key points covered?

Also report "overall" as your combined judgement and list the concrete "issues" keeping the slide below %.2f. Leave "issues" empty when there are none.

Source section "%s":
---
%s
---

Slide:
%s

Respond with JSON in exactly this shape:
{"accuracy": 0.0, "coherence": 0.0, "clarity": 0.0, "completeness": 0.0, "overall": 0.0, "issues": ["..."]}`

const optimizePromptTemplate = `Rewrite the slide below to fix the listed issues while staying faithful to the source section. Keep what already works; change only what the issues call out.

Source section "%s":
---
%s
---

Current slide:
%s

Quality review (overall %.2f):
%s

Respond with JSON in exactly this shape:
{"title": "...", "bullets": ["..."], "speaker_notes": "..."}`

const systemNarrator = `You write natural spoken narration for presentation slides. Respond with the narration text only, no formatting, no stage directions.`

const narrationPromptTemplate = `Write the spoken narration for this slide. Audience: %s. Language: %s.
2 to 4 sentences, conversational, flowing through the bullet points without reading them verbatim.

Slide %d: %s
Bullets:
%s
Speaker notes: %s`

const systemSectionParser = `You split documents into presentation-ready sections. Respond with strict JSON only, no markdown fences, no commentary.`

const parseSectionsPromptTemplate = `Split the document below into logical sections for a slide deck. Each section needs a short title, its body text, and a heading level (1 for top level, 2 for nested).

Document:
---
%s
---

Respond with JSON in exactly this shape:
{"sections": [{"title": "...", "body": "...", "level": 1}]}`

func buildSlidePrompt(section model.Section, hints model.GenerationHints) string {
	return fmt.Sprintf(slidePromptTemplate,
		hints.Audience, hints.Style, hints.Language,
		section.Order+1, hints.TotalSections, hints.DocumentTitle,
		hints.MaxTitleLen, hints.MaxBullets,
		section.Title, llmtext.Truncate(section.Body, maxSectionPromptChars))
}

func buildScorePrompt(draft model.SlideDraft, section model.Section, threshold float64) string {
	return fmt.Sprintf(scorePromptTemplate,
		threshold, section.Title,
		llmtext.Truncate(section.Body, maxSectionPromptChars),
		draftJSON(draft))
}

func buildOptimizePrompt(draft model.SlideDraft, score model.QualityScore, section model.Section) string {
	return fmt.Sprintf(optimizePromptTemplate,
		section.Title, llmtext.Truncate(section.Body, maxSectionPromptChars),
		draftJSON(draft), score.Overall, formatIssues(score.Issues))
}

func buildNarrationPrompt(draft model.SlideDraft, hints model.GenerationHints) string {
	return fmt.Sprintf(narrationPromptTemplate,
		hints.Audience, hints.Language,
		draft.SlideNumber, draft.Title,
		formatBullets(draft.Bullets), draft.SpeakerNotes)
}

func buildParseSectionsPrompt(documentText string) string {
	return fmt.Sprintf(parseSectionsPromptTemplate,
		llmtext.Truncate(documentText, maxDocumentPromptChars))
}

// draftJSON renders a draft as compact JSON for embedding in prompts.
func draftJSON(d model.SlideDraft) string {
	b, err := json.Marshal(struct {
		Title        string   `json:"title"`
		Bullets      []string `json:"bullets"`
		SpeakerNotes string   `json:"speaker_notes"`
	}{d.Title, d.Bullets, d.SpeakerNotes})
	if err != nil {
		return d.Title
	}
	return string(b)
}

func formatIssues(issues []string) string {
	if len(issues) == 0 {
		return "- no specific issues listed"
	}
	return "- " + strings.Join(issues, "\n- ")
}

func formatBullets(bullets []string) string {
	if len(bullets) == 0 {
		return "- (none)"
	}
	return "- " + strings.Join(bullets, "\n- ")
}
