package model

import "strings"

// SlideDraft is a candidate slide. Generate calls create one, optimize calls
// replace it with a new value, the accepted draft is the one stored in the
// run result. SlideNumber is assigned from Section.Order at assembly time,
// not from generation order.
type SlideDraft struct {
	Title         string   `json:"title"`
	Bullets       []string `json:"bullets"`
	SpeakerNotes  string   `json:"speaker_notes"`
	SlideNumber   int      `json:"slide_number"`
	SourceSection string   `json:"source_section"`
	Narration     string   `json:"narration,omitempty"`
}

// QualityScore is the 4-dimension rubric reduced to one scalar. A score is
// produced fresh on every scoring call and never mutated afterwards.
type QualityScore struct {
	Accuracy     float64  `json:"accuracy"`
	Coherence    float64  `json:"coherence"`
	Clarity      float64  `json:"clarity"`
	Completeness float64  `json:"completeness"`
	Overall      float64  `json:"overall"`
	Issues       []string `json:"issues,omitempty"`
	Passed       bool     `json:"passed"`
}

// Finalize clamps all dimensions to [0,1], fills a missing Overall with the
// unweighted mean of the four dimensions, and derives Passed from the
// threshold. Passed is never set any other way.
func (q QualityScore) Finalize(threshold float64) QualityScore {
	q.Accuracy = clamp01(q.Accuracy)
	q.Coherence = clamp01(q.Coherence)
	q.Clarity = clamp01(q.Clarity)
	q.Completeness = clamp01(q.Completeness)
	if q.Overall == 0 {
		q.Overall = (q.Accuracy + q.Coherence + q.Clarity + q.Completeness) / 4
	}
	q.Overall = clamp01(q.Overall)
	q.Passed = q.Overall >= threshold
	return q
}

// GenerationHints shapes the prompts of generate, optimize and narration
// calls. One value per run, shared by all sections.
type GenerationHints struct {
	Audience      string `json:"audience"`
	Style         string `json:"style"`
	Language      string `json:"language"`
	MaxBullets    int    `json:"max_bullets"`
	MaxTitleLen   int    `json:"max_title_length"`
	DocumentTitle string `json:"document_title"`
	TotalSections int    `json:"total_sections"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FallbackDraft builds a minimal draft straight from the section: the
// section title and a naive split of the body. Used when no provider could
// produce a real draft.
func FallbackDraft(section Section, maxBullets int) SlideDraft {
	if maxBullets <= 0 {
		maxBullets = 5
	}

	var bullets []string
	for _, line := range strings.Split(section.Body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			bullets = append(bullets, truncateBullet(line))
		}
		if len(bullets) == maxBullets {
			break
		}
	}
	if len(bullets) < 2 {
		bullets = bullets[:0]
		for _, sentence := range strings.Split(section.Body, ". ") {
			if sentence = strings.TrimSpace(sentence); sentence != "" {
				bullets = append(bullets, truncateBullet(strings.TrimSuffix(sentence, ".")))
			}
			if len(bullets) == maxBullets {
				break
			}
		}
	}
	if len(bullets) == 0 {
		bullets = []string{section.Title}
	}

	return SlideDraft{
		Title:         section.Title,
		Bullets:       bullets,
		SourceSection: section.Title,
	}
}

func truncateBullet(s string) string {
	const max = 120
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
