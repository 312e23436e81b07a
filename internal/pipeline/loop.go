package pipeline

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slideflow/internal/model"
	"github.com/nguyentantai21042004/slideflow/internal/provider"
)

// attempt is one generate-or-optimize round and the score it earned.
// Attempt indexes are 1-based; the initial generation is attempt 1.
type attempt struct {
	draft model.SlideDraft
	score model.QualityScore
	index int
}

// sectionOutcome is the terminal state of one section's loop. A non-nil
// failure means a hard provider failure: slide then holds the synthetic
// fallback draft and the section is reported in FailedSections, never in
// the slide list.
type sectionOutcome struct {
	section    model.Section
	slide      model.SlideDraft
	score      model.QualityScore
	attempts   int
	bestEffort bool
	provider   string
	failure    error
}

// sectionLoop runs the quality-controlled state machine for one section:
// generate, score, then accept or optimize-and-rescore up to the attempt
// budget, accepting the best attempt on exhaustion. The loop owns all retry
// policy; adapter calls are single-shot.
type sectionLoop struct {
	p        *implPipeline
	section  model.Section
	hints    model.GenerationHints
	adapter  provider.Adapter
	fellBack bool
}

// runSection binds one section to a router-selected adapter and drives its
// loop to a terminal state. Never returns an error: hard failures land in
// the outcome.
func (p *implPipeline) runSection(ctx context.Context, section model.Section, hints model.GenerationHints) sectionOutcome {
	l := &sectionLoop{p: p, section: section, hints: hints}

	adapter, err := p.router.Select(p.preferred)
	if err != nil {
		return l.fail(ctx, err)
	}
	l.adapter = adapter

	return l.run(ctx)
}

func (l *sectionLoop) run(ctx context.Context) sectionOutcome {
	draft, err := l.generate(ctx)
	if err != nil {
		return l.fail(ctx, err)
	}

	threshold := l.p.cfg.Quality.Threshold
	maxAttempts := l.p.cfg.Quality.MaxRetries + 1
	attempts := make([]attempt, 0, maxAttempts)

	for idx := 1; ; idx++ {
		score, err := l.score(ctx, draft)
		if err != nil {
			if ctx.Err() != nil {
				// run canceled: keep scored work, fail unscored work
				if len(attempts) > 0 {
					break
				}
				return l.fail(ctx, err)
			}
			// scorer outage: accept the draft unreviewed instead of burning
			// the attempt budget against a dead scorer
			score = scorerOutageScore(threshold, err)
			l.p.logger.Warn(ctx, "Scoring unavailable for %q, accepting attempt %d unreviewed: %v", l.section.Title, idx, err)
		}
		attempts = append(attempts, attempt{draft: draft, score: score, index: idx})

		if score.Passed {
			l.p.logger.Info(ctx, "Section %q accepted at attempt %d (score %.2f)", l.section.Title, idx, score.Overall)
			return l.accept(attempts[len(attempts)-1], len(attempts), false)
		}

		if idx >= maxAttempts {
			break
		}

		l.p.logger.Debug(ctx, "Section %q attempt %d scored %.2f < %.2f, optimizing", l.section.Title, idx, score.Overall, threshold)
		optimized, err := l.optimize(ctx, draft, score)
		if err != nil {
			l.p.logger.Warn(ctx, "Optimization unavailable for %q after attempt %d, keeping best so far: %v", l.section.Title, idx, err)
			break
		}
		draft = optimized
	}

	best := bestAttempt(attempts)
	l.p.logger.Warn(ctx, "Section %q exhausted %d attempts, best-effort accept of attempt %d (score %.2f)",
		l.section.Title, len(attempts), best.index, best.score.Overall)
	return l.accept(best, len(attempts), true)
}

// generate runs the initial generation, with at most one fallback to the
// next healthy adapter.
func (l *sectionLoop) generate(ctx context.Context) (model.SlideDraft, error) {
	draft, err := l.generateOnce(ctx)
	if err == nil {
		return draft, nil
	}
	if ferr := l.fallback(ctx, err); ferr != nil {
		return model.SlideDraft{}, ferr
	}
	return l.generateOnce(ctx)
}

func (l *sectionLoop) score(ctx context.Context, draft model.SlideDraft) (model.QualityScore, error) {
	score, err := l.scoreOnce(ctx, draft)
	if err == nil {
		return score, nil
	}
	if ferr := l.fallback(ctx, err); ferr != nil {
		return model.QualityScore{}, ferr
	}
	return l.scoreOnce(ctx, draft)
}

func (l *sectionLoop) optimize(ctx context.Context, draft model.SlideDraft, score model.QualityScore) (model.SlideDraft, error) {
	optimized, err := l.optimizeOnce(ctx, draft, score)
	if err == nil {
		return optimized, nil
	}
	if ferr := l.fallback(ctx, err); ferr != nil {
		return model.SlideDraft{}, ferr
	}
	return l.optimizeOnce(ctx, draft, score)
}

func (l *sectionLoop) generateOnce(ctx context.Context) (model.SlideDraft, error) {
	cctx, cancel := l.p.callContext(ctx)
	defer cancel()

	draft, err := l.adapter.GenerateSlide(cctx, l.section, l.hints)
	l.p.usage.record(err == nil, l.section.Body)
	return draft, err
}

func (l *sectionLoop) scoreOnce(ctx context.Context, draft model.SlideDraft) (model.QualityScore, error) {
	cctx, cancel := l.p.callContext(ctx)
	defer cancel()

	score, err := l.adapter.ScoreSlide(cctx, draft, l.section, l.p.cfg.Quality.Threshold)
	l.p.usage.record(err == nil, l.section.Body)
	return score, err
}

func (l *sectionLoop) optimizeOnce(ctx context.Context, draft model.SlideDraft, score model.QualityScore) (model.SlideDraft, error) {
	cctx, cancel := l.p.callContext(ctx)
	defer cancel()

	optimized, err := l.adapter.OptimizeSlide(cctx, draft, score, l.section)
	l.p.usage.record(err == nil, l.section.Body)
	return optimized, err
}

// fallback marks the current adapter unhealthy and swaps to the next healthy
// one. Allowed at most once per section so one section's retry history never
// mixes more than two providers. Returns the original cause when no fallback
// remains.
func (l *sectionLoop) fallback(ctx context.Context, cause error) error {
	l.p.router.MarkUnhealthy(l.adapter.Name())

	if l.fellBack {
		return cause
	}
	l.fellBack = true

	next, err := l.p.router.Select(l.p.preferred)
	if err != nil {
		return fmt.Errorf("%v; fallback unavailable: %w", cause, err)
	}

	l.p.logger.Warn(ctx, "Section %q falling back from %s to %s: %v", l.section.Title, l.adapter.Name(), next.Name(), cause)
	l.adapter = next
	return nil
}

func (l *sectionLoop) accept(a attempt, attempts int, bestEffort bool) sectionOutcome {
	return sectionOutcome{
		section:    l.section,
		slide:      a.draft,
		score:      a.score,
		attempts:   attempts,
		bestEffort: bestEffort,
		provider:   l.adapter.Name(),
	}
}

func (l *sectionLoop) fail(ctx context.Context, err error) sectionOutcome {
	l.p.logger.Error(ctx, "Section %q failed: %v", l.section.Title, err)

	name := ""
	if l.adapter != nil {
		name = l.adapter.Name()
	}
	return sectionOutcome{
		section:  l.section,
		slide:    model.FallbackDraft(l.section, l.hints.MaxBullets),
		provider: name,
		failure:  err,
	}
}

// bestAttempt picks the attempt with the highest overall score. Strictly
// greater comparison keeps the earliest attempt on ties, so best-effort
// selection is reproducible.
func bestAttempt(attempts []attempt) attempt {
	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.score.Overall > best.score.Overall {
			best = a
		}
	}
	return best
}

// scorerOutageScore substitutes a synthetic pass when scoring itself is
// down. Overall equals the threshold so Passed stays a pure function of the
// two; the outage is visible in Issues and the report.
func scorerOutageScore(threshold float64, cause error) model.QualityScore {
	score := model.QualityScore{
		Accuracy:     threshold,
		Coherence:    threshold,
		Clarity:      threshold,
		Completeness: threshold,
		Overall:      threshold,
		Issues:       []string{fmt.Sprintf("quality scoring unavailable: %v", cause)},
	}
	return score.Finalize(threshold)
}
