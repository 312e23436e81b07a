package document

import (
	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Supported document formats.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// Parsed bundles the pipeline-ready document with the parse artifacts the
// report and summary draw on.
type Parsed struct {
	Document  *model.Document `json:"document"`
	Info      Info            `json:"info"`
	Analysis  Analysis        `json:"analysis"`
	Estimates Estimates       `json:"estimates"`
}

// Info identifies the source document.
type Info struct {
	Filename      string `json:"filename"`
	Format        string `json:"format"`
	OriginalSize  int    `json:"original_size"`
	ProcessedSize int    `json:"processed_size"`
	Hash          string `json:"document_hash"`
}

// Analysis describes the document's shape and texture.
type Analysis struct {
	TotalLength    int     `json:"total_length"`
	LineCount      int     `json:"line_count"`
	WordCount      int     `json:"word_count"`
	ParagraphCount int     `json:"paragraph_count"`
	Language       string  `json:"language"`
	Complexity     float64 `json:"complexity_score"`
	Readability    float64 `json:"readability_score"`
	StructureType  string  `json:"structure_type"`
}

// Estimates projects the presentation that would result from this document.
type Estimates struct {
	TotalWords      int     `json:"total_words"`
	TotalChars      int     `json:"total_chars"`
	EstimatedSlides int     `json:"estimated_slides"`
	DurationMinSec  int     `json:"duration_min_seconds"`
	DurationMaxSec  int     `json:"duration_max_seconds"`
	DurationAvgSec  int     `json:"duration_avg_seconds"`
	Complexity      float64 `json:"complexity_factor"`
}

// Finding is one validation issue or warning tied to a section.
type Finding struct {
	Type         string `json:"type"`
	SectionIndex int    `json:"section_index"`
	SectionTitle string `json:"section_title,omitempty"`
	Message      string `json:"message"`
}

// Statistics summarizes the section structure for the validation report.
type Statistics struct {
	TotalSections      int `json:"total_sections"`
	EmptySections      int `json:"empty_sections"`
	ShortSections      int `json:"short_sections"`
	LongSections       int `json:"long_sections"`
	TotalContentLength int `json:"total_content_length"`
}

// ValidationResult is the outcome of a structural quality check.
type ValidationResult struct {
	IsValid      bool       `json:"is_valid"`
	QualityScore float64    `json:"quality_score"`
	Issues       []Finding  `json:"issues"`
	Warnings     []Finding  `json:"warnings"`
	Statistics   Statistics `json:"statistics"`
}
