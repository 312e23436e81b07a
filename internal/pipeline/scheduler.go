package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Run drives a document through the full pipeline: every section through the
// quality loop in parallel, then a narration pass over the accepted slides.
func (p *implPipeline) Run(ctx context.Context, doc *model.Document) (*model.RunResult, error) {
	if doc == nil || len(doc.Sections) == 0 {
		return nil, fmt.Errorf("document has no sections")
	}

	started := time.Now()
	runID := uuid.NewString()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting presentation run %s", runID)
	p.logger.Info(ctx, "Document: %s (%d sections)", doc.Title, len(doc.Sections))
	p.logger.Info(ctx, "========================================")

	hints := p.hintsFor(doc)

	// Step 1: Generate, score and optimize every section in parallel
	outcomes := p.fanOutSections(ctx, doc.Sections, hints)

	// Step 2: Assemble the run result
	result := p.collect(runID, doc, outcomes)

	// Step 3: Narrate the accepted slides
	p.narrate(ctx, result, hints)

	result.Usage = p.usage.snapshot()
	result.CostEstimate = result.Usage.CostUSD
	result.StartedAt = started
	result.FinishedAt = time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Run %s finished", runID)
	p.logger.Info(ctx, "Slides: %d accepted, %d failed", len(result.Slides), len(result.FailedSections))
	p.logger.Info(ctx, "Overall quality: %.2f", result.OverallQualityScore)
	p.logger.Info(ctx, "Estimated cost: $%.4f", result.CostEstimate)
	p.logger.Info(ctx, "Run time: %s", result.Duration())
	p.logger.Info(ctx, "========================================")

	return result, nil
}

// fanOutSections runs every section loop concurrently, bounded by the
// configured limit. Outcomes land at the section's own index so ordering
// never depends on completion time.
func (p *implPipeline) fanOutSections(ctx context.Context, sections []model.Section, hints model.GenerationHints) []sectionOutcome {
	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	outcomes := make([]sectionOutcome, len(sections))

	var wg sync.WaitGroup
	for i := range sections {
		if err := sem.acquire(ctx); err != nil {
			for j := i; j < len(sections); j++ {
				outcomes[j] = p.canceledSection(ctx, sections[j], hints, err)
			}
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.release()
			outcomes[i] = p.runSection(ctx, sections[i], hints)
		}(i)
	}
	wg.Wait()

	return outcomes
}

func (p *implPipeline) canceledSection(ctx context.Context, section model.Section, hints model.GenerationHints, cause error) sectionOutcome {
	p.logger.Error(ctx, "Section %q not started: %v", section.Title, cause)
	return sectionOutcome{
		section: section,
		slide:   model.FallbackDraft(section, hints.MaxBullets),
		failure: fmt.Errorf("run canceled: %w", cause),
	}
}

// collect assembles the run result from the per-section outcomes. Slide
// numbers follow the section order, so a failed section leaves a visible gap
// rather than shifting every later slide.
func (p *implPipeline) collect(runID string, doc *model.Document, outcomes []sectionOutcome) *model.RunResult {
	result := &model.RunResult{
		RunID:         runID,
		DocumentTitle: doc.Title,
	}

	var sum float64
	for _, o := range outcomes {
		number := o.section.Order + 1

		if o.failure != nil {
			fallback := o.slide
			fallback.SlideNumber = number
			result.FailedSections = append(result.FailedSections, model.FailedSection{
				Section:  o.section,
				Reason:   o.failure.Error(),
				Fallback: fallback,
			})
			result.Warnings = append(result.Warnings, fmt.Sprintf("section %q failed: %v", o.section.Title, o.failure))
			continue
		}

		slide := o.slide
		slide.SlideNumber = number
		result.Slides = append(result.Slides, slide)
		result.Results = append(result.Results, model.SlideResult{
			Slide:      slide,
			Score:      o.score,
			Attempts:   o.attempts,
			BestEffort: o.bestEffort,
			Provider:   o.provider,
		})
		sum += o.score.Overall

		if o.bestEffort {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"section %q accepted below threshold with score %.2f after %d attempts",
				o.section.Title, o.score.Overall, o.attempts))
		}
	}

	if len(result.Results) > 0 {
		result.OverallQualityScore = sum / float64(len(result.Results))
	}

	return result
}

// hintsFor carries the generation settings plus the document-level context
// the prompts need.
func (p *implPipeline) hintsFor(doc *model.Document) model.GenerationHints {
	return model.GenerationHints{
		Audience:      p.cfg.Generation.Audience,
		Style:         p.cfg.Generation.Style,
		Language:      p.cfg.Generation.Language,
		MaxBullets:    p.cfg.Generation.MaxBullets,
		MaxTitleLen:   p.cfg.Generation.MaxTitleLength,
		DocumentTitle: doc.Title,
		TotalSections: len(doc.Sections),
	}
}
