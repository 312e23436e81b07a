package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

var (
	numberedHeading = regexp.MustCompile(`^\d+\.?\s+(.+)`)
	// CJK ordinal headings ("一、" style).
	cjkHeading = regexp.MustCompile(`^[一二三四五六七八九十]+[、．.]\s*(.+)`)
)

// plaintextSections slices text without markdown structure at heading-like
// lines: numbered headings, CJK ordinals and short all-caps lines.
func plaintextSections(content string) []model.Section {
	lines := strings.Split(content, "\n")

	var sections []model.Section
	var current *model.Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		sections = append(sections, *current)
		body = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isHeadingLine(trimmed) {
			body = append(body, line)
			continue
		}

		// Text before the first heading belongs to the first section.
		if current == nil && len(body) > 0 {
			body = append(body, "")
		} else {
			flush()
		}
		current = &model.Section{
			Title: headingTitle(trimmed),
			Level: 1,
			Order: len(sections),
		}
	}
	flush()

	return sections
}

func isHeadingLine(line string) bool {
	if line == "" {
		return false
	}
	if numberedHeading.MatchString(line) {
		return true
	}
	if cjkHeading.MatchString(line) {
		return true
	}
	return isAllCapsHeading(line)
}

func isAllCapsHeading(line string) bool {
	if utf8.RuneCountInString(line) >= 50 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}

func headingTitle(line string) string {
	if m := numberedHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := cjkHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return line
}
