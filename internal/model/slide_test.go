package model

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name        string
		score       QualityScore
		threshold   float64
		wantOverall float64
		wantPassed  bool
	}{
		{
			name:        "explicit overall kept",
			score:       QualityScore{Accuracy: 1, Coherence: 1, Clarity: 1, Completeness: 1, Overall: 0.7},
			threshold:   0.8,
			wantOverall: 0.7,
			wantPassed:  false,
		},
		{
			name:        "missing overall averaged",
			score:       QualityScore{Accuracy: 0.9, Coherence: 0.7, Clarity: 0.8, Completeness: 0.6},
			threshold:   0.75,
			wantOverall: 0.75,
			wantPassed:  true,
		},
		{
			name:        "negative dimension clamped before averaging",
			score:       QualityScore{Accuracy: -0.5, Coherence: 1, Clarity: 1, Completeness: 1},
			threshold:   0.8,
			wantOverall: 0.75,
			wantPassed:  false,
		},
		{
			name:        "overall above one clamped",
			score:       QualityScore{Accuracy: 1, Coherence: 1, Clarity: 1, Completeness: 1, Overall: 1.2},
			threshold:   0.8,
			wantOverall: 1.0,
			wantPassed:  true,
		},
		{
			name:        "zero score fails",
			score:       QualityScore{},
			threshold:   0.8,
			wantOverall: 0,
			wantPassed:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.score.Finalize(tt.threshold)
			if !almostEqual(got.Overall, tt.wantOverall) {
				t.Errorf("Overall = %v, want %v", got.Overall, tt.wantOverall)
			}
			if got.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", got.Passed, tt.wantPassed)
			}
		})
	}
}

func TestFallbackDraft(t *testing.T) {
	tests := []struct {
		name        string
		section     Section
		maxBullets  int
		wantBullets []string
	}{
		{
			name:        "one bullet per line capped",
			section:     Section{Title: "Plan", Body: "alpha\n\nbeta\ngamma"},
			maxBullets:  2,
			wantBullets: []string{"alpha", "beta"},
		},
		{
			name:        "single line falls back to sentences",
			section:     Section{Title: "Plan", Body: "First point. Second point. Third point."},
			maxBullets:  5,
			wantBullets: []string{"First point", "Second point", "Third point"},
		},
		{
			name:        "empty body uses the title",
			section:     Section{Title: "Plan", Body: ""},
			maxBullets:  5,
			wantBullets: []string{"Plan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := FallbackDraft(tt.section, tt.maxBullets)
			if draft.Title != tt.section.Title {
				t.Errorf("Title = %q, want %q", draft.Title, tt.section.Title)
			}
			if draft.SourceSection != tt.section.Title {
				t.Errorf("SourceSection = %q, want %q", draft.SourceSection, tt.section.Title)
			}
			if len(draft.Bullets) != len(tt.wantBullets) {
				t.Fatalf("Bullets = %q, want %q", draft.Bullets, tt.wantBullets)
			}
			for i := range tt.wantBullets {
				if draft.Bullets[i] != tt.wantBullets[i] {
					t.Errorf("Bullets[%d] = %q, want %q", i, draft.Bullets[i], tt.wantBullets[i])
				}
			}
		})
	}
}

func TestFallbackDraftDefaultCap(t *testing.T) {
	section := Section{Title: "Long", Body: "a\nb\nc\nd\ne\nf\ng"}

	draft := FallbackDraft(section, 0)
	if len(draft.Bullets) != 5 {
		t.Errorf("len(Bullets) = %d, want 5", len(draft.Bullets))
	}
}

func TestFallbackDraftTruncatesLongLines(t *testing.T) {
	section := Section{Title: "Long", Body: strings.Repeat("x", 130) + "\nshort line"}

	draft := FallbackDraft(section, 5)
	if len(draft.Bullets) != 2 {
		t.Fatalf("len(Bullets) = %d, want 2", len(draft.Bullets))
	}
	first := draft.Bullets[0]
	if !strings.HasSuffix(first, "...") {
		t.Errorf("truncated bullet should end with ellipsis, got %q", first)
	}
	if n := len([]rune(first)); n != 123 {
		t.Errorf("truncated bullet length = %d runes, want 123", n)
	}
}
