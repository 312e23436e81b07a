package model

import "time"

// SlideResult is the per-section outcome kept for reporting: the accepted
// draft, its final score, how many attempts it took and which provider
// served the section.
type SlideResult struct {
	Slide      SlideDraft   `json:"slide"`
	Score      QualityScore `json:"score"`
	Attempts   int          `json:"attempts"`
	BestEffort bool         `json:"best_effort"`
	Provider   string       `json:"provider"`
}

// FailedSection records a hard provider failure. Fallback is the synthetic
// draft built from the section itself; it is carried here for human review
// and never appears in the slide list.
type FailedSection struct {
	Section  Section    `json:"section"`
	Reason   string     `json:"reason"`
	Fallback SlideDraft `json:"fallback"`
}

// NarrationEntry is the spoken text for one slide plus its estimated
// duration in seconds.
type NarrationEntry struct {
	SlideNumber       int     `json:"slide_number"`
	SlideTitle        string  `json:"slide_title"`
	Text              string  `json:"text"`
	EstimatedDuration float64 `json:"estimated_duration"`
}

// UsageSnapshot is a point-in-time copy of the shared usage tracker.
type UsageSnapshot struct {
	Requests int64   `json:"requests"`
	Failures int64   `json:"failures"`
	Tokens   int64   `json:"tokens"`
	CostUSD  float64 `json:"cost_usd"`
}

// RunResult aggregates one document run. It is built once at scheduler
// fan-in and read-only thereafter. Slides are ordered by Section.Order.
type RunResult struct {
	RunID               string           `json:"run_id"`
	DocumentTitle       string           `json:"document_title"`
	Slides              []SlideDraft     `json:"slides"`
	Results             []SlideResult    `json:"results"`
	FailedSections      []FailedSection  `json:"failed_sections"`
	Narration           []NarrationEntry `json:"narration"`
	Transcript          string           `json:"transcript"`
	OverallQualityScore float64          `json:"overall_quality_score"`
	CostEstimate        float64          `json:"cost_estimate_usd"`
	Usage               UsageSnapshot    `json:"usage"`
	Warnings            []string         `json:"warnings,omitempty"`
	StartedAt           time.Time        `json:"started_at"`
	FinishedAt          time.Time        `json:"finished_at"`
}

// Duration is the wall-clock time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// BestEffortCount returns how many slides were accepted below the quality
// threshold.
func (r *RunResult) BestEffortCount() int {
	n := 0
	for _, res := range r.Results {
		if res.BestEffort {
			n++
		}
	}
	return n
}
