package document

import (
	"fmt"
	"strings"
)

func (p *implParser) Validate(parsed *Parsed) ValidationResult {
	result := ValidationResult{}
	if parsed == nil || parsed.Document == nil || len(parsed.Document.Sections) == 0 {
		return result
	}

	minLen := p.cfg.Document.MinSectionChars
	maxLen := p.cfg.Document.MaxSectionChars
	stats := &result.Statistics
	stats.TotalSections = len(parsed.Document.Sections)

	for i, section := range parsed.Document.Sections {
		length := len(strings.TrimSpace(section.Body))
		stats.TotalContentLength += length

		switch {
		case length == 0:
			stats.EmptySections++
			result.Issues = append(result.Issues, Finding{
				Type:         "empty_section",
				SectionIndex: i,
				SectionTitle: section.Title,
				Message:      "section has no content",
			})
		case length < minLen:
			stats.ShortSections++
			result.Warnings = append(result.Warnings, Finding{
				Type:         "short_section",
				SectionIndex: i,
				SectionTitle: section.Title,
				Message:      fmt.Sprintf("section has only %d characters", length),
			})
		case length > maxLen:
			stats.LongSections++
			result.Warnings = append(result.Warnings, Finding{
				Type:         "long_section",
				SectionIndex: i,
				SectionTitle: section.Title,
				Message:      fmt.Sprintf("section has %d characters and may need splitting", length),
			})
		}

		if strings.TrimSpace(section.Title) == "" {
			result.Issues = append(result.Issues, Finding{
				Type:         "missing_title",
				SectionIndex: i,
				Message:      "section has no title",
			})
		}
	}

	result.IsValid = len(result.Issues) == 0
	result.QualityScore = structureScore(stats, len(result.Issues), len(result.Warnings))
	return result
}

func structureScore(stats *Statistics, issues, warnings int) float64 {
	if stats.TotalSections == 0 {
		return 0
	}

	score := 1.0
	score -= float64(issues) * 0.2
	score -= float64(warnings) * 0.1
	score -= float64(stats.EmptySections) * 0.1

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
