package pipeline

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/slideflow/internal/model"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

// Spoken pace and per-slide duration band used for narration estimates.
const (
	wordsPerMinute  = 150
	minSlideSeconds = 15
	maxSlideSeconds = 180
)

// narrate runs the narration fan-out over the finished slides, bounded by
// the same concurrency limit as generation. Narration is never scored; a
// slide whose narration cannot be generated gets text assembled from the
// slide itself, so this pass cannot fail the run.
func (p *implPipeline) narrate(ctx context.Context, result *model.RunResult, hints model.GenerationHints) {
	if len(result.Slides) == 0 {
		return
	}

	// Narration is a fresh phase: recheck adapters that generation marked
	// unhealthy so a recovered provider is usable again.
	for _, name := range p.router.Names() {
		p.router.HealthCheck(ctx, name)
	}

	p.logger.Info(ctx, "Generating narration for %d slides", len(result.Slides))

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	entries := make([]model.NarrationEntry, len(result.Slides))

	var wg sync.WaitGroup
	for i := range result.Slides {
		if err := sem.acquire(ctx); err != nil {
			for j := i; j < len(result.Slides); j++ {
				entries[j] = narrationEntry(result.Slides[j], fallbackNarration(result.Slides[j]))
			}
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.release()
			entries[i] = p.narrateSlide(ctx, result.Slides[i], hints)
		}(i)
	}
	wg.Wait()

	for i := range entries {
		result.Slides[i].Narration = entries[i].Text
		result.Results[i].Slide.Narration = entries[i].Text
	}
	result.Narration = entries
	result.Transcript = buildTranscript(result.DocumentTitle, entries)
}

// narrateSlide produces one slide's narration with the same fallback
// discipline as generation: one re-selection, then assembled text.
func (p *implPipeline) narrateSlide(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) model.NarrationEntry {
	text, err := p.narrationText(ctx, draft, hints)
	if err != nil {
		p.logger.Warn(ctx, "Narration for slide %d fell back to assembled text: %v", draft.SlideNumber, err)
		text = fallbackNarration(draft)
	}
	return narrationEntry(draft, text)
}

func (p *implPipeline) narrationText(ctx context.Context, draft model.SlideDraft, hints model.GenerationHints) (string, error) {
	adapter, err := p.router.Select(p.preferred)
	if err != nil {
		return "", err
	}

	text, err := p.narrateOnce(ctx, adapter, draft, hints)
	if err == nil {
		return text, nil
	}

	p.router.MarkUnhealthy(adapter.Name())
	next, serr := p.router.Select(p.preferred)
	if serr != nil {
		return "", err
	}
	return p.narrateOnce(ctx, next, draft, hints)
}

func (p *implPipeline) narrateOnce(ctx context.Context, adapter provider.Adapter, draft model.SlideDraft, hints model.GenerationHints) (string, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	text, err := adapter.GenerateNarration(cctx, draft, hints)
	p.usage.record(err == nil, draft.SpeakerNotes, strings.Join(draft.Bullets, " "))
	return text, err
}

func narrationEntry(draft model.SlideDraft, text string) model.NarrationEntry {
	return model.NarrationEntry{
		SlideNumber:       draft.SlideNumber,
		SlideTitle:        draft.Title,
		Text:              text,
		EstimatedDuration: estimateSpeechSeconds(text),
	}
}

// fallbackNarration assembles spoken text from the slide itself when no
// provider could narrate it.
func fallbackNarration(d model.SlideDraft) string {
	parts := []string{"Let's look at " + strings.TrimSuffix(d.Title, ".") + "."}
	for _, b := range d.Bullets {
		parts = append(parts, strings.TrimSuffix(strings.TrimSpace(b), ".")+".")
	}
	if notes := strings.TrimSpace(d.SpeakerNotes); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, " ")
}

// estimateSpeechSeconds assumes a steady spoken pace, clamped to a sane
// per-slide band.
func estimateSpeechSeconds(text string) float64 {
	words := len(strings.Fields(text))
	seconds := float64(words) / wordsPerMinute * 60
	if seconds < minSlideSeconds {
		return minSlideSeconds
	}
	if seconds > maxSlideSeconds {
		return maxSlideSeconds
	}
	return math.Round(seconds*10) / 10
}

// buildTranscript joins the narration into one continuous spoken script.
func buildTranscript(docTitle string, entries []model.NarrationEntry) string {
	var b strings.Builder
	b.WriteString("Welcome. This presentation covers " + docTitle + ".\n\n")
	for _, e := range entries {
		b.WriteString(e.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("That concludes the presentation. Thank you.")
	return b.String()
}
