package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slideflow/internal/document"
	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Artifact filenames within a run directory.
const (
	presentationFile = "presentation.json"
	narrationFile    = "narration.txt"
	reportFile       = "report.json"
	summaryFile      = "summary.txt"
	scriptFile       = "script.docx"
	slidesDir        = "slides"
)

type presentationDoc struct {
	RunID       string             `json:"run_id"`
	Title       string             `json:"title"`
	GeneratedAt time.Time          `json:"generated_at"`
	SlideCount  int                `json:"slide_count"`
	Slides      []model.SlideDraft `json:"slides"`
}

type documentReport struct {
	Info      document.Info      `json:"info"`
	Analysis  document.Analysis  `json:"analysis"`
	Estimates document.Estimates `json:"estimates"`
}

type runReport struct {
	Document documentReport   `json:"document"`
	Run      *model.RunResult `json:"run"`
}

func (w *implWriter) WriteRun(ctx context.Context, parsed *document.Parsed, result *model.RunResult) (string, error) {
	if parsed == nil || result == nil {
		return "", fmt.Errorf("nothing to write")
	}

	dir := filepath.Join(w.cfg.Paths.Output, runDirName(parsed.Info.Filename))
	if err := os.MkdirAll(filepath.Join(dir, slidesDir), 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	if err := w.writePresentation(dir, result); err != nil {
		return "", err
	}
	if err := w.writeSlides(dir, result); err != nil {
		return "", err
	}
	if err := w.writeNarration(dir, result); err != nil {
		return "", err
	}
	if err := w.writeReport(dir, parsed, result); err != nil {
		return "", err
	}
	if err := w.writeSummary(dir, result); err != nil {
		return "", err
	}
	if err := writeScript(result, filepath.Join(dir, scriptFile)); err != nil {
		return "", fmt.Errorf("write speaker script: %w", err)
	}

	w.logger.Info(ctx, "Artifacts written to %s", dir)
	return dir, nil
}

func (w *implWriter) writePresentation(dir string, result *model.RunResult) error {
	doc := presentationDoc{
		RunID:       result.RunID,
		Title:       result.DocumentTitle,
		GeneratedAt: result.FinishedAt,
		SlideCount:  len(result.Slides),
		Slides:      result.Slides,
	}
	return writeJSON(filepath.Join(dir, presentationFile), doc)
}

func (w *implWriter) writeSlides(dir string, result *model.RunResult) error {
	for _, r := range result.Results {
		name := fmt.Sprintf("slide_%02d.json", r.Slide.SlideNumber)
		if err := writeJSON(filepath.Join(dir, slidesDir, name), r); err != nil {
			return err
		}
	}
	return nil
}

func (w *implWriter) writeNarration(dir string, result *model.RunResult) error {
	if err := os.WriteFile(filepath.Join(dir, narrationFile), []byte(result.Transcript), 0644); err != nil {
		return fmt.Errorf("write narration: %w", err)
	}
	return nil
}

func (w *implWriter) writeReport(dir string, parsed *document.Parsed, result *model.RunResult) error {
	report := runReport{
		Document: documentReport{
			Info:      parsed.Info,
			Analysis:  parsed.Analysis,
			Estimates: parsed.Estimates,
		},
		Run: result,
	}
	return writeJSON(filepath.Join(dir, reportFile), report)
}

func (w *implWriter) writeSummary(dir string, result *model.RunResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Presentation: %s\n", result.DocumentTitle)
	fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "Finished: %s\n", result.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n\n", result.Duration().Round(time.Millisecond))

	fmt.Fprintf(&b, "Slides: %d\n", len(result.Slides))
	fmt.Fprintf(&b, "Overall quality: %.2f\n", result.OverallQualityScore)
	fmt.Fprintf(&b, "Estimated cost: $%.4f (%d requests, %d tokens)\n",
		result.CostEstimate, result.Usage.Requests, result.Usage.Tokens)

	if n := result.BestEffortCount(); n > 0 {
		fmt.Fprintf(&b, "\nAccepted below threshold (review recommended):\n")
		for _, r := range result.Results {
			if r.BestEffort {
				fmt.Fprintf(&b, "  - slide %d %q scored %.2f after %d attempts\n",
					r.Slide.SlideNumber, r.Slide.Title, r.Score.Overall, r.Attempts)
			}
		}
	}

	if len(result.FailedSections) > 0 {
		fmt.Fprintf(&b, "\nFailed sections:\n")
		for _, f := range result.FailedSections {
			fmt.Fprintf(&b, "  - %q: %s\n", f.Section.Title, f.Reason)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, summaryFile), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// runDirName derives a directory name from the source filename.
func runDirName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.TrimSpace(stem)
	if stem == "" || stem == "." {
		return "presentation"
	}
	return stem
}
