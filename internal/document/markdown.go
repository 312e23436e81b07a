package document

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// headingMark locates one heading in the source: where its line begins and
// where its body starts.
type headingMark struct {
	level     int
	title     string
	lineStart int
	bodyStart int
}

// markdownSections slices the source into sections at its headings. Parsing
// goes through the markdown AST, so hash marks inside code fences do not
// spawn phantom sections the way line scanning would.
func markdownSections(source []byte) []model.Section {
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var marks []headingMark
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		lineStart := lineStartBefore(source, first.Start)
		bodyStart := nextLineAfter(source, last.Stop)
		if !isHashHeadingLine(source, lineStart) {
			// Setext heading: Lines() cover the text only, so step over the
			// ==== underline as well.
			bodyStart = nextLineAfter(source, bodyStart)
		}
		marks = append(marks, headingMark{
			level:     h.Level,
			title:     string(bytes.TrimSpace(first.Value(source))),
			lineStart: lineStart,
			bodyStart: bodyStart,
		})
		return ast.WalkSkipChildren, nil
	})

	if len(marks) == 0 {
		return nil
	}

	sections := make([]model.Section, 0, len(marks))
	for i, m := range marks {
		end := len(source)
		if i+1 < len(marks) {
			end = marks[i+1].lineStart
		}
		body := string(bytes.TrimSpace(source[m.bodyStart:end]))

		// Text before the first heading belongs to the first section.
		if i == 0 {
			if preamble := bytes.TrimSpace(source[:m.lineStart]); len(preamble) > 0 {
				if body == "" {
					body = string(preamble)
				} else {
					body = string(preamble) + "\n\n" + body
				}
			}
		}

		sections = append(sections, model.Section{
			Title: m.title,
			Body:  body,
			Level: m.level,
			Order: i,
		})
	}
	return sections
}

func lineStartBefore(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

func isHashHeadingLine(source []byte, lineStart int) bool {
	for i := lineStart; i < len(source); i++ {
		if source[i] == ' ' || source[i] == '\t' {
			continue
		}
		return source[i] == '#'
	}
	return false
}

func nextLineAfter(source []byte, offset int) int {
	if offset >= len(source) {
		return len(source)
	}
	i := bytes.IndexByte(source[offset:], '\n')
	if i < 0 {
		return len(source)
	}
	return offset + i + 1
}
