package document

import (
	"strings"
)

// Per-slide presentation time band used for duration estimates.
const (
	slideSecondsMin = 30
	slideSecondsMax = 60
)

func analyze(content string, headings int) Analysis {
	paragraphs := 0
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	structure := "linear"
	switch {
	case headings > 5:
		structure = "hierarchical"
	case headings > 0:
		structure = "sectioned"
	}

	return Analysis{
		TotalLength:    len(content),
		LineCount:      len(strings.Split(content, "\n")),
		WordCount:      len(strings.Fields(content)),
		ParagraphCount: paragraphs,
		Language:       detectLanguage(content),
		Complexity:     complexityScore(content),
		Readability:    readabilityScore(content),
		StructureType:  structure,
	}
}

func estimate(content string, sections int) Estimates {
	minSec := sections * slideSecondsMin
	maxSec := sections * slideSecondsMax
	return Estimates{
		TotalWords:      len(strings.Fields(content)),
		TotalChars:      len(content),
		EstimatedSlides: sections,
		DurationMinSec:  minSec,
		DurationMaxSec:  maxSec,
		DurationAvgSec:  (minSec + maxSec) / 2,
		Complexity:      complexityScore(content),
	}
}

// detectLanguage distinguishes CJK-dominant documents from everything else;
// it drives the prompt language hint, nothing more.
func detectLanguage(content string) string {
	cjk, total := 0, 0
	for _, r := range content {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		total++
		if r >= 0x4e00 && r <= 0x9fff {
			cjk++
		}
	}
	if total > 0 && float64(cjk)/float64(total) > 0.3 {
		return "zh-CN"
	}
	return "en-US"
}

func complexityScore(content string) float64 {
	length := float64(len(content)) / 10000
	if length > 2 {
		length = 2
	}
	structure := float64(len(strings.Split(content, "\n\n"))) / 100

	unique := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(content)) {
		unique[w] = struct{}{}
	}
	vocabulary := float64(len(unique)) / 1000

	score := length + structure + vocabulary
	if score < 0.5 {
		return 0.5
	}
	if score > 2 {
		return 2
	}
	return score
}

// readabilityScore grows as average sentence length approaches a spoken
// register and shrinks as sentences sprawl.
func readabilityScore(content string) float64 {
	sentences := 0
	for _, s := range strings.Split(content, ".") {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	words := len(strings.Fields(content))
	if sentences == 0 || words == 0 {
		return 0.5
	}

	avg := float64(words) / float64(sentences)
	score := 1 - (avg-15)/30
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
