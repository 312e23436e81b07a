package document

import (
	"context"
)

// Parser defines the interface for turning raw document text into the
// ordered section sequence the pipeline consumes.
type Parser interface {
	// Parse normalizes the raw text, extracts sections and computes the
	// document analysis. Fails only on empty or unreadable input; a document
	// without recognizable headings parses into a single section.
	Parse(ctx context.Context, raw []byte, filename string) (*Parsed, error)

	// Validate checks the parsed structure and scores it. Findings are
	// advisory except empty sections and missing titles, which make the
	// document invalid.
	Validate(parsed *Parsed) ValidationResult
}
