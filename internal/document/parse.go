package document

import (
	"context"
	"crypto/md5"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

func (p *implParser) Parse(ctx context.Context, raw []byte, filename string) (*Parsed, error) {
	content := normalize(string(raw))
	if content == "" {
		return nil, fmt.Errorf("document %s is empty", filename)
	}

	format := p.detectFormat(filename, content)
	sections, headings := p.sections(ctx, content, format)

	title, sections := promoteTitle(sections)
	if title == "" {
		title = titleFromFilename(filename)
	}

	sections = p.optimizeSections(sections)
	if len(sections) == 0 {
		return nil, fmt.Errorf("document %s has no usable content", filename)
	}

	doc := &model.Document{
		Title:    title,
		Sections: sections,
		Chars:    len(content),
		Words:    len(strings.Fields(content)),
	}

	parsed := &Parsed{
		Document: doc,
		Info: Info{
			Filename:      filepath.Base(filename),
			Format:        format,
			OriginalSize:  len(raw),
			ProcessedSize: len(content),
			Hash:          fmt.Sprintf("%x", md5.Sum([]byte(content))),
		},
		Analysis:  analyze(content, headings),
		Estimates: estimate(content, len(sections)),
	}

	p.logger.Info(ctx, "Parsed %s: %d sections, %s, language %s",
		parsed.Info.Filename, len(sections), format, parsed.Analysis.Language)

	return parsed, nil
}

// sections extracts the raw section sequence, preferring the model-backed
// parser when configured and falling back to mechanical extraction.
func (p *implParser) sections(ctx context.Context, content, format string) ([]model.Section, int) {
	if p.cfg.Document.UseModelParser && p.router != nil {
		sections, err := p.modelSections(ctx, content)
		if err != nil {
			p.logger.Warn(ctx, "Model-backed parsing failed, using mechanical parser: %v", err)
		} else if len(sections) > 0 {
			return sections, len(sections)
		}
	}

	var sections []model.Section
	if format == FormatMarkdown {
		sections = markdownSections([]byte(content))
	} else {
		sections = plaintextSections(content)
	}

	if len(sections) == 0 {
		return []model.Section{{Title: "Document", Body: content, Level: 1, Order: 0}}, 0
	}
	return sections, len(sections)
}

func (p *implParser) modelSections(ctx context.Context, content string) ([]model.Section, error) {
	preferred := ""
	if len(p.cfg.Providers.Preference) > 0 {
		preferred = p.cfg.Providers.Preference[0]
	}
	adapter, err := p.router.Select(preferred)
	if err != nil {
		return nil, err
	}
	return adapter.ParseSections(ctx, content)
}

func (p *implParser) detectFormat(filename, content string) string {
	switch p.cfg.Document.Format {
	case FormatMarkdown:
		return FormatMarkdown
	case FormatPlain:
		return FormatPlain
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt":
		return FormatPlain
	}
	if strings.Contains(content, "# ") || strings.Contains(content, "## ") {
		return FormatMarkdown
	}
	return FormatPlain
}

// promoteTitle lifts a leading body-less level-1 heading out of the section
// list and uses it as the document title, the way a title slide sits apart
// from the deck.
func promoteTitle(sections []model.Section) (string, []model.Section) {
	if len(sections) == 0 {
		return "", sections
	}
	first := sections[0]
	if first.Level != 1 || strings.TrimSpace(first.Body) != "" {
		return "", sections
	}

	rest := sections[1:]
	for i := range rest {
		rest[i].Order = i
	}
	return strings.TrimSpace(first.Title), rest
}

func titleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
	if stem == "" {
		return "Untitled Document"
	}
	return stem
}

// normalize trims the document, unifies line endings and caps consecutive
// blank lines at two so paragraph seams stay visible without dead space.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks <= 2 {
				kept = append(kept, "")
			}
			continue
		}
		blanks = 0
		kept = append(kept, line)
	}

	return normalizeHeadings(strings.Join(kept, "\n"))
}

// normalizeHeadings repairs hash headings written without a space after the
// markers so the markdown parser recognizes them.
func normalizeHeadings(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, "#") {
			continue
		}
		level := 0
		for level < len(t) && t[level] == '#' {
			level++
		}
		if level < len(t) && t[level] != ' ' {
			lines[i] = t[:level] + " " + t[level:]
		} else {
			lines[i] = t
		}
	}
	return strings.Join(lines, "\n")
}
