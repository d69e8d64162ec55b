package structure

import (
	"strings"
	"testing"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

func TestCountHeadingsMixedForms(t *testing.T) {
	content := "# Title\n\n## Section\n\ntext\n\n<h3>Sub</h3>\nmore text\n\n### Deep\n"
	if got := CountHeadings(content); got != 4 {
		t.Fatalf("headings = %d, want 4", got)
	}
}

func TestCountImagesAllForms(t *testing.T) {
	content := "![alt](a.png) text <img src=\"b.jpg\"> more [IMAGE: product photo]"
	if got := CountImages(content); got != 3 {
		t.Fatalf("images = %d, want 3", got)
	}
}

func TestCountParagraphsByMarker(t *testing.T) {
	content := "<p>one</p><p>two</p><p>three</p>"
	if got := CountParagraphs(content); got != 3 {
		t.Fatalf("paragraphs = %d, want 3", got)
	}
}

func TestCountParagraphsByBlocks(t *testing.T) {
	content := "# Title\n\nFirst paragraph\nstill first.\n\nSecond paragraph.\n\n## Heading\nThird paragraph."
	if got := CountParagraphs(content); got != 3 {
		t.Fatalf("paragraphs = %d, want 3", got)
	}
}

func TestVisibleTextStripsMarkup(t *testing.T) {
	content := "<h2>Title</h2><p>Real text</p> ![alt](x.png) [IMAGE: hero shot]"
	visible := VisibleText(content)
	for _, gone := range []string{"<h2>", "<p>", "![alt]", "[IMAGE:"} {
		if strings.Contains(visible, gone) {
			t.Fatalf("visible text still contains %q: %q", gone, visible)
		}
	}
	if !strings.Contains(visible, "Real text") {
		t.Fatalf("visible text lost content: %q", visible)
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("one two three, four!"); got != 4 {
		t.Fatalf("words = %d, want 4", got)
	}
}

func TestHeadingCheckFeedback(t *testing.T) {
	v := NewValidator(guideline.Requirements{
		Headings: guideline.Range{Min: 3, Max: 8},
		Keywords: map[string]guideline.KeywordRange{"x": {Min: 0, Max: 1}},
	})
	checks := v.Structure("no headings here at all")
	var heading Check
	for _, c := range checks {
		if c.Metric == "headings" {
			heading = c
		}
	}
	if heading.Passed {
		t.Fatalf("zero headings should fail range 3-8")
	}
	want := "Add 3 more headings of any level (current: 0, required: 3-8)"
	if heading.Feedback != want {
		t.Fatalf("feedback = %q, want %q", heading.Feedback, want)
	}
}

func TestStructureChecksPassInRange(t *testing.T) {
	v := NewValidator(guideline.Requirements{
		Paragraphs: guideline.Range{Min: 1, Max: 5},
		Images:     guideline.Range{Min: 0, Max: 2},
		Headings:   guideline.Range{Min: 1, Max: 3},
		Characters: guideline.Range{Min: 10, Unbounded: true},
		Words:      guideline.Range{Min: 3, Max: 100},
	})
	content := "# Title\n\nA decent paragraph with enough words in it."
	for _, c := range v.Structure(content) {
		if !c.Passed {
			t.Fatalf("check %s failed: current %d expected %s", c.Metric, c.Current, c.Expected)
		}
	}
}

func TestCharacterCountUsesVisibleText(t *testing.T) {
	v := NewValidator(guideline.Requirements{
		Characters: guideline.Range{Min: 0, Max: 10},
	})
	// Tag characters must not count toward the limit.
	content := "<div><span><b>short</b></span></div>"
	checks := v.Structure(content)
	for _, c := range checks {
		if c.Metric == "characters" && !c.Passed {
			t.Fatalf("characters = %d, markup should be stripped first", c.Current)
		}
	}
}
