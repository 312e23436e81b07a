package pipeline

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/slideflow/internal/model"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testDocument(titles ...string) *model.Document {
	doc := &model.Document{Title: "Test Document"}
	for i, title := range titles {
		doc.Sections = append(doc.Sections, testSection(title, i))
	}
	return doc
}

// perSectionScores scripts an independent score sequence for each section
// title; calls beyond a sequence repeat its last value.
func perSectionScores(threshold float64, scores map[string][]float64) func(model.SlideDraft, model.Section, float64) (model.QualityScore, error) {
	var mu sync.Mutex
	calls := map[string]int{}
	return func(draft model.SlideDraft, section model.Section, th float64) (model.QualityScore, error) {
		mu.Lock()
		defer mu.Unlock()
		seq := scores[section.Title]
		i := calls[section.Title]
		calls[section.Title]++
		v := seq[len(seq)-1]
		if i < len(seq) {
			v = seq[i]
		}
		return scoredAt(v, threshold), nil
	}
}

func TestRunThreeSectionScenario(t *testing.T) {
	fake := provider.NewFake("primary")
	fake.ScoreFunc = perSectionScores(0.8, map[string][]float64{
		"Intro":   {0.9},
		"Body":    {0.5, 0.85},
		"Closing": {0.3, 0.4, 0.5},
	})

	p, _ := testPipeline(t, testConfig(0.8, 2, 3), fake)
	result, err := p.Run(context.Background(), testDocument("Intro", "Body", "Closing"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.FailedSections) != 0 {
		t.Fatalf("FailedSections = %d, want 0", len(result.FailedSections))
	}
	if len(result.Slides) != 3 {
		t.Fatalf("Slides = %d, want 3", len(result.Slides))
	}

	want := []struct {
		number     int
		attempts   int
		bestEffort bool
		overall    float64
	}{
		{1, 1, false, 0.9},
		{2, 2, false, 0.85},
		{3, 3, true, 0.5},
	}
	for i, w := range want {
		r := result.Results[i]
		if r.Slide.SlideNumber != w.number {
			t.Errorf("Results[%d].SlideNumber = %d, want %d", i, r.Slide.SlideNumber, w.number)
		}
		if r.Attempts != w.attempts {
			t.Errorf("Results[%d].Attempts = %d, want %d", i, r.Attempts, w.attempts)
		}
		if r.BestEffort != w.bestEffort {
			t.Errorf("Results[%d].BestEffort = %v, want %v", i, r.BestEffort, w.bestEffort)
		}
		if !almostEqual(r.Score.Overall, w.overall) {
			t.Errorf("Results[%d].Score.Overall = %v, want %v", i, r.Score.Overall, w.overall)
		}
	}

	if got := fake.CallCount("score_slide"); got != 6 {
		t.Errorf("score calls = %d, want 6", got)
	}
	if got := fake.CallCount("optimize_slide"); got != 3 {
		t.Errorf("optimize calls = %d, want 3", got)
	}
	// Narration ran for all three slides without touching the scorer.
	if got := fake.CallCount("generate_narration"); got != 3 {
		t.Errorf("narration calls = %d, want 3", got)
	}

	if !almostEqual(result.OverallQualityScore, 0.75) {
		t.Errorf("OverallQualityScore = %v, want 0.75", result.OverallQualityScore)
	}
	if got := result.BestEffortCount(); got != 1 {
		t.Errorf("BestEffortCount() = %d, want 1", got)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Closing") {
		t.Errorf("Warnings = %v, want one best-effort warning for Closing", result.Warnings)
	}

	for i, slide := range result.Slides {
		if slide.Narration == "" {
			t.Errorf("Slides[%d].Narration is empty", i)
		}
	}
	if len(result.Narration) != 3 {
		t.Errorf("Narration entries = %d, want 3", len(result.Narration))
	}
	if result.Transcript == "" {
		t.Error("Transcript is empty")
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Usage.Requests == 0 {
		t.Error("Usage.Requests = 0, want > 0")
	}
	if result.FinishedAt.Before(result.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}
}

func TestRunRejectsEmptyDocument(t *testing.T) {
	fake := provider.NewFake("primary")
	p, _ := testPipeline(t, testConfig(0.8, 2, 3), fake)

	if _, err := p.Run(context.Background(), nil); err == nil {
		t.Error("Run(nil) should return error")
	}
	if _, err := p.Run(context.Background(), &model.Document{Title: "Empty"}); err == nil {
		t.Error("Run(no sections) should return error")
	}
}

func TestRunSoleProviderFailsOneSection(t *testing.T) {
	fake := provider.NewFake("primary")
	fake.Delay = 10 * time.Millisecond
	fake.GenerateFunc = func(section model.Section, hints model.GenerationHints) (model.SlideDraft, error) {
		if section.Title == "Second" {
			return model.SlideDraft{}, errors.New("quota exceeded")
		}
		draft := model.FallbackDraft(section, hints.MaxBullets)
		draft.SpeakerNotes = "Notes for " + section.Title
		return draft, nil
	}

	p, _ := testPipeline(t, testConfig(0.8, 2, 3), fake)
	result, err := p.Run(context.Background(), testDocument("First", "Second", "Third"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.FailedSections) != 1 {
		t.Fatalf("FailedSections = %d, want 1", len(result.FailedSections))
	}
	failed := result.FailedSections[0]
	if failed.Section.Title != "Second" {
		t.Errorf("failed section = %q, want Second", failed.Section.Title)
	}
	if !strings.Contains(failed.Reason, "quota exceeded") {
		t.Errorf("Reason = %q, want the underlying error", failed.Reason)
	}
	if failed.Fallback.Title != "Second" || len(failed.Fallback.Bullets) == 0 {
		t.Errorf("Fallback = %+v, want a synthetic draft for Second", failed.Fallback)
	}
	if failed.Fallback.SlideNumber != 2 {
		t.Errorf("Fallback.SlideNumber = %d, want 2", failed.Fallback.SlideNumber)
	}

	if len(result.Slides) != 2 {
		t.Fatalf("Slides = %d, want 2", len(result.Slides))
	}
	// A failed section leaves a gap in the numbering instead of shifting
	// its successors.
	if result.Slides[0].SlideNumber != 1 || result.Slides[1].SlideNumber != 3 {
		t.Errorf("slide numbers = [%d %d], want [1 3]",
			result.Slides[0].SlideNumber, result.Slides[1].SlideNumber)
	}

	// The failed section must not also appear as a slide.
	for _, slide := range result.Slides {
		if slide.SourceSection == "Second" {
			t.Error("failed section also present in Slides")
		}
	}

	if len(result.Warnings) == 0 {
		t.Error("Warnings is empty, want a failure warning")
	}
	for _, slide := range result.Slides {
		if slide.Narration == "" {
			t.Error("surviving slide has no narration")
		}
	}
}

func TestRunConcurrencyBoundOne(t *testing.T) {
	fake := provider.NewFake("primary")
	fake.Delay = 2 * time.Millisecond

	p, _ := testPipeline(t, testConfig(0.8, 0, 1), fake)
	result, err := p.Run(context.Background(), testDocument("A", "B", "C", "D", "E"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Slides) != 5 {
		t.Fatalf("Slides = %d, want 5", len(result.Slides))
	}

	spans := fake.Spans()
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start.Before(spans[j].Start) })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.Start.Before(prev.End) {
			t.Fatalf("calls overlap with limit 1: %s %q [%v-%v] and %s %q [%v-%v]",
				prev.Op, prev.Section, prev.Start, prev.End,
				cur.Op, cur.Section, cur.Start, cur.End)
		}
	}
}

func TestRunCancellationMarksRemainingFailed(t *testing.T) {
	fake := provider.NewFake("primary")
	fake.Delay = 30 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p, _ := testPipeline(t, testConfig(0.8, 2, 1), fake)
	result, err := p.Run(ctx, testDocument("A", "B", "C"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// With a 30ms call delay and a 50ms deadline no section can finish its
	// generate and score before cancellation.
	if len(result.Slides) != 0 {
		t.Errorf("Slides = %d, want 0", len(result.Slides))
	}
	if len(result.FailedSections) != 3 {
		t.Errorf("FailedSections = %d, want 3", len(result.FailedSections))
	}
	for _, f := range result.FailedSections {
		if f.Reason == "" {
			t.Error("failed section has empty Reason")
		}
	}
}

func TestRunNarrationFallsBackToAssembledText(t *testing.T) {
	fake := provider.NewFake("primary")
	fake.NarrateFunc = func(draft model.SlideDraft, hints model.GenerationHints) (string, error) {
		return "", errors.New("narrator down")
	}

	p, _ := testPipeline(t, testConfig(0.8, 2, 3), fake)
	result, err := p.Run(context.Background(), testDocument("Alpha"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Narration) != 1 {
		t.Fatalf("Narration entries = %d, want 1", len(result.Narration))
	}
	if !strings.HasPrefix(result.Narration[0].Text, "Let's look at") {
		t.Errorf("narration = %q, want assembled fallback text", result.Narration[0].Text)
	}
	if result.Slides[0].Narration != result.Narration[0].Text {
		t.Error("slide narration not synced with narration entry")
	}
	if result.Narration[0].EstimatedDuration < minSlideSeconds {
		t.Errorf("EstimatedDuration = %v, want >= %d", result.Narration[0].EstimatedDuration, minSlideSeconds)
	}
}

func TestEstimateSpeechSeconds(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  float64
	}{
		{name: "short text clamps to minimum", words: 5, want: 15},
		{name: "steady pace", words: 300, want: 120},
		{name: "long text clamps to maximum", words: 1000, want: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := estimateSpeechSeconds(text); got != tt.want {
				t.Errorf("estimateSpeechSeconds(%d words) = %v, want %v", tt.words, got, tt.want)
			}
		})
	}
}

func TestBuildTranscript(t *testing.T) {
	entries := []model.NarrationEntry{
		{SlideNumber: 1, Text: "First slide narration."},
		{SlideNumber: 2, Text: "Second slide narration."},
	}
	got := buildTranscript("My Deck", entries)

	if !strings.Contains(got, "My Deck") {
		t.Error("transcript missing document title")
	}
	if !strings.Contains(got, "First slide narration.") || !strings.Contains(got, "Second slide narration.") {
		t.Error("transcript missing slide narration")
	}
	if !strings.HasSuffix(got, "Thank you.") {
		t.Error("transcript missing closing")
	}
}

func TestFallbackNarration(t *testing.T) {
	draft := model.SlideDraft{
		Title:        "Kubernetes Basics",
		Bullets:      []string{"Pods are the unit of deployment", "Services route traffic"},
		SpeakerNotes: "Mention the control plane.",
	}
	got := fallbackNarration(draft)

	if !strings.Contains(got, "Kubernetes Basics") {
		t.Error("fallback narration missing slide title")
	}
	if !strings.Contains(got, "Pods are the unit of deployment.") {
		t.Error("fallback narration missing bullets")
	}
	if !strings.Contains(got, "Mention the control plane.") {
		t.Error("fallback narration missing speaker notes")
	}
}
