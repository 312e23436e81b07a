package document

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// optimizeSections reshapes the raw sections for one-slide-per-section use:
// sections below the minimum length merge into their predecessor, sections
// above the maximum split at paragraph seams, and the survivors renumber.
func (p *implParser) optimizeSections(sections []model.Section) []model.Section {
	minLen := p.cfg.Document.MinSectionChars
	maxLen := p.cfg.Document.MaxSectionChars

	var optimized []model.Section
	var pending *model.Section

	for _, section := range sections {
		length := len(strings.TrimSpace(section.Body))

		if length < minLen && pending != nil {
			pending.Body = strings.TrimSpace(pending.Body + "\n\n" + section.Body)
			continue
		}

		if pending != nil {
			optimized = append(optimized, *pending)
			pending = nil
		}

		if length > maxLen {
			optimized = append(optimized, splitSection(section, maxLen)...)
			continue
		}

		s := section
		pending = &s
	}
	if pending != nil {
		optimized = append(optimized, *pending)
	}

	for i := range optimized {
		optimized[i].Order = i
	}
	return optimized
}

// splitSection breaks an oversized section at paragraph boundaries. A single
// paragraph longer than the limit stays whole; slides never cut mid-paragraph.
func splitSection(section model.Section, maxLen int) []model.Section {
	paragraphs := strings.Split(section.Body, "\n\n")

	var parts []string
	var current []string
	length := 0

	for _, para := range paragraphs {
		if length+len(para) > maxLen && len(current) > 0 {
			parts = append(parts, strings.Join(current, "\n\n"))
			current = []string{para}
			length = len(para)
			continue
		}
		current = append(current, para)
		length += len(para)
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, "\n\n"))
	}

	if len(parts) <= 1 {
		return []model.Section{section}
	}

	out := make([]model.Section, len(parts))
	for i, body := range parts {
		out[i] = model.Section{
			Title: fmt.Sprintf("%s (part %d)", section.Title, i+1),
			Body:  strings.TrimSpace(body),
			Level: section.Level,
			Order: section.Order,
		}
	}
	return out
}
