package output

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

const (
	fontName = "Calibri"
	fontSize = 12
)

// writeScript renders the speaker script: per slide the title, the bullets
// as shown, the speaker notes and the narration to read aloud.
func writeScript(result *model.RunResult, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), result.DocumentTitle, true, 18)
	addStyledRun(doc.AddParagraph(""), "Speaker Script", false, 14)
	doc.AddParagraph("")

	narrationBySlide := make(map[int]model.NarrationEntry, len(result.Narration))
	for _, entry := range result.Narration {
		narrationBySlide[entry.SlideNumber] = entry
	}

	for _, slide := range result.Slides {
		heading := fmt.Sprintf("Slide %d: %s", slide.SlideNumber, slide.Title)
		addStyledRun(doc.AddParagraph(""), heading, true, 15)

		for _, bullet := range slide.Bullets {
			addStyledRun(doc.AddParagraph(""), "• "+bullet, false, fontSize)
		}

		if slide.SpeakerNotes != "" {
			addStyledRun(doc.AddParagraph(""), "Notes: "+slide.SpeakerNotes, false, fontSize)
		}

		if entry, ok := narrationBySlide[slide.SlideNumber]; ok && entry.Text != "" {
			p := doc.AddParagraph("")
			p.AddText("Narration (~" + formatSeconds(entry.EstimatedDuration) + "): ").
				Font(fontName).Size(fontSize).Color("000000").Bold(true)
			p.AddText(entry.Text).Font(fontName).Size(fontSize).Color("444444")
		}

		doc.AddParagraph("")
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%ds", int(seconds+0.5))
}
