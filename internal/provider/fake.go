package provider

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// CallSpan records the wall-clock window of one adapter call, for
// concurrency assertions in tests.
type CallSpan struct {
	Op      string
	Section string
	Start   time.Time
	End     time.Time
}

// Fake is a scriptable in-memory Adapter. It backs unit tests and dry runs:
// unset script funcs fall back to deterministic canned behavior. Scripted
// funcs may return plain errors; they are wrapped into provider errors.
type Fake struct {
	FakeName string
	Delay    time.Duration
	PingErr  error

	GenerateFunc func(section model.Section, hints model.GenerationHints) (model.SlideDraft, error)
	ScoreFunc    func(draft model.SlideDraft, section model.Section, threshold float64) (model.QualityScore, error)
	OptimizeFunc func(draft model.SlideDraft, score model.QualityScore, section model.Section) (model.SlideDraft, error)
	NarrateFunc  func(draft model.SlideDraft, hints model.GenerationHints) (string, error)
	ParseFunc    func(documentText string) ([]model.Section, error)

	mu    sync.Mutex
	spans []CallSpan
	stats callStats
}

// NewFake creates a Fake with the given name and canned defaults.
func NewFake(name string) *Fake {
	return &Fake{FakeName: name}
}

func (f *Fake) Name() string {
	if f.FakeName == "" {
		return "fake"
	}
	return f.FakeName
}

func (f *Fake) Stats() Stats {
	return f.stats.snapshot()
}

func (f *Fake) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newError(f.Name(), "ping", err)
	}
	if f.PingErr != nil {
		return newError(f.Name(), "ping", f.PingErr)
	}
	return nil
}

// Spans returns a copy of all recorded call windows.
func (f *Fake) Spans() []CallSpan {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]CallSpan, len(f.spans))
	copy(out, f.spans)
	return out
}

// CallCount returns how many calls of the given op were recorded.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.spans {
		if s.Op == op {
			n++
		}
	}
	return n
}

func (f *Fake) GenerateSlide(ctx context.Context, section model.Section, hints model.GenerationHints) (model.SlideDraft, error) {
	done := f.track("generate_slide", section.Title)
	defer done()

	if err := f.wait(ctx); err != nil {
		f.stats.record(false)
		return model.SlideDraft{}, newError(f.Name(), "generate_slide", err)
	}

	if f.GenerateFunc != nil {
		draft, err := f.GenerateFunc(section, hints)
		f.stats.record(err == nil)
		return draft, f.wrap("generate_slide", err)
	}

	f.stats.record(true)
	draft := model.FallbackDraft(section, hints.MaxBullets)
	draft.SpeakerNotes = "Notes for " + section.Title
	return draft, nil
}

func (f *Fake) ScoreSlide(ctx context.Context, draft model.SlideDraft, section model.Section, threshold float64) (model.QualityScore, error) {
	done := f.track("score_slide", section.Title)
	defer done()

	if err := f.wait(ctx); err != nil {
		f.stats.record(false)
		return model.QualityScore{}, newError(f.Name(), "score_slide", err)
	}

	if f.ScoreFunc != nil {
		score, err := f.ScoreFunc(draft, section, threshold)
		f.stats.record(err == nil)
		return score, f.wrap("score_slide", err)
	}

	f.stats.record(true)
	score := model.QualityScore{Accuracy: 0.9, Coherence: 0.9, Clarity: 0.9, Completeness: 0.9}
	return score.Finalize(threshold), nil
}

func (f *Fake) OptimizeSlide(ctx context.Context, draft model.SlideDraft, score model.QualityScore, section model.Section) (model.SlideDraft, error) {
	done := f.track("optimize_slide", section.Title)
	defer done()

	if err := f.wait(ctx); err != nil {
		f.stats.record(false)
		return model.SlideDraft{}, newError(f.Name(), "optimize_slide", err)
	}

	if f.OptimizeFunc != nil {
		optimized, err := f.OptimizeFunc(draft, score, section)
		f.stats.record(err == nil)
		return optimized, f.wrap("optimize_slide", err)
	}

	f.stats.record(true)
	optimized := draft
	optimized.Bullets = append([]string(nil), draft.Bullets...)
	optimized.SpeakerNotes = draft.SpeakerNotes + " (revised)"
	return optimized, nil
}

func (f *Fake) GenerateNarration(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) (string, error) {
	done := f.track("generate_narration", draft.SourceSection)
	defer done()

	if err := f.wait(ctx); err != nil {
		f.stats.record(false)
		return "", newError(f.Name(), "generate_narration", err)
	}

	if f.NarrateFunc != nil {
		text, err := f.NarrateFunc(draft, hints)
		f.stats.record(err == nil)
		return text, f.wrap("generate_narration", err)
	}

	f.stats.record(true)
	return "This slide covers " + draft.Title + ".", nil
}

func (f *Fake) ParseSections(ctx context.Context, documentText string) ([]model.Section, error) {
	done := f.track("parse_sections", "")
	defer done()

	if err := f.wait(ctx); err != nil {
		f.stats.record(false)
		return nil, newError(f.Name(), "parse_sections", err)
	}

	if f.ParseFunc != nil {
		sections, err := f.ParseFunc(documentText)
		f.stats.record(err == nil)
		return sections, f.wrap("parse_sections", err)
	}

	f.stats.record(true)
	return []model.Section{{Title: "Document", Body: documentText, Level: 1, Order: 0}}, nil
}

func (f *Fake) track(op, section string) func() {
	start := time.Now()
	return func() {
		f.mu.Lock()
		f.spans = append(f.spans, CallSpan{Op: op, Section: section, Start: start, End: time.Now()})
		f.mu.Unlock()
	}
}

func (f *Fake) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fake) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return newError(f.Name(), op, err)
}
