// Package structure validates the shape of content against guideline bounds:
// paragraph, heading, image, character, and word counts plus question
// coverage. It is independent of keyword counting.
package structure

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

// Category tags where a Check came from.
type Category int

const (
	CategoryStructure Category = iota
	CategoryKeyword
	CategoryQuestion
)

func (c Category) String() string {
	switch c {
	case CategoryStructure:
		return "structure"
	case CategoryKeyword:
		return "keyword"
	case CategoryQuestion:
		return "question"
	}
	return "unknown"
}

// MarshalText makes the category render as its name in JSON output.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Check is the result of one validation: a metric, whether it passed, the
// observed value, the expected range, and remediation text for failures.
type Check struct {
	Metric   string          `json:"metric"`
	Category Category        `json:"category"`
	Passed   bool            `json:"passed"`
	Current  int             `json:"current"`
	Expected guideline.Range `json:"expected"`

	// CurrentLabel carries non-numeric observations, e.g. "3/5 terms" for
	// question coverage. Empty when Current alone describes the state.
	CurrentLabel string `json:"currentLabel,omitempty"`

	Feedback string `json:"feedback,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Validator runs the structural and question checks for one guideline.
type Validator struct {
	req guideline.Requirements
}

func NewValidator(req guideline.Requirements) *Validator {
	return &Validator{req: req}
}

// Validate runs every structural check followed by question coverage.
func (v *Validator) Validate(content string) []Check {
	checks := v.Structure(content)
	return append(checks, v.Questions(content)...)
}

// Structure checks paragraph, image, heading, character, and word counts.
func (v *Validator) Structure(content string) []Check {
	visible := VisibleText(content)
	return []Check{
		rangeCheck("paragraphs", CountParagraphs(content), v.req.Paragraphs),
		imageCheck(content, v.req.Images),
		headingCheck(content, v.req.Headings),
		rangeCheck("characters", len(visible), v.req.Characters),
		rangeCheck("words", CountWords(visible), v.req.Words),
	}
}

// CountParagraphs counts paragraph blocks. Content using explicit <p> markers
// is counted by marker; otherwise paragraphs are runs of non-empty,
// non-heading lines separated by blank lines or headings.
func CountParagraphs(content string) int {
	if strings.Contains(content, "<p>") {
		return strings.Count(content, "<p>")
	}
	count := 0
	open := false
	for _, line := range strings.Split(content, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || htmlHeadingOpenRe.MatchString(s) {
			if open {
				count++
				open = false
			}
			continue
		}
		open = true
	}
	if open {
		count++
	}
	return count
}

var htmlHeadingOpenRe = regexp.MustCompile(`(?i)^<h[1-6]`)

// CountHeadings accumulates all heading levels into one count: a level-2
// heading weighs the same as a level-4 heading, in markdown or HTML form.
func CountHeadings(content string) int {
	return len(mdHeadingRe.FindAllString(content, -1)) +
		len(htmlHeadingRe.FindAllString(content, -1))
}

// headingBreakdown reports per-level counts for check details, e.g. "H2:3, H3:1".
func headingBreakdown(content string) string {
	levels := map[int]int{}
	for _, m := range mdHeadingRe.FindAllStringSubmatch(content, -1) {
		levels[len(m[1])]++
	}
	for _, h := range htmlHeadingRe.FindAllString(content, -1) {
		if len(h) >= 3 && h[2] >= '1' && h[2] <= '6' {
			levels[int(h[2]-'0')]++
		}
	}
	keys := make([]int, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("H%d:%d", k, levels[k]))
	}
	return strings.Join(parts, ", ")
}

// CountImages counts markdown images, HTML <img> tags, and bracketed
// [IMAGE: ...] placeholders.
func CountImages(content string) int {
	return len(mdImageRe.FindAllString(content, -1)) +
		len(htmlImgRe.FindAllString(content, -1)) +
		len(placeholderRe.FindAllString(content, -1))
}

// CountWords counts word tokens in already-stripped text.
func CountWords(visible string) int {
	return len(wordRe.FindAllString(visible, -1))
}

func rangeCheck(metric string, current int, rng guideline.Range) Check {
	c := Check{
		Metric:   metric,
		Category: CategoryStructure,
		Current:  current,
		Expected: rng,
		Passed:   rng.Contains(current),
		Details:  fmt.Sprintf("counted %d %s", current, metric),
	}
	if c.Passed {
		return c
	}
	if current < rng.Min {
		c.Feedback = fmt.Sprintf("Add %d more %s (current: %d, required: %s)",
			rng.Min-current, metric, current, rng)
	} else {
		c.Feedback = fmt.Sprintf("Remove %d %s (current: %d, max: %d)",
			current-rng.Max, metric, current, rng.Max)
	}
	return c
}

func imageCheck(content string, rng guideline.Range) Check {
	md := len(mdImageRe.FindAllString(content, -1))
	htm := len(htmlImgRe.FindAllString(content, -1))
	ph := len(placeholderRe.FindAllString(content, -1))
	c := rangeCheck("images", md+htm+ph, rng)
	c.Details = fmt.Sprintf("found %d markdown, %d HTML, %d placeholder images", md, htm, ph)
	return c
}

func headingCheck(content string, rng guideline.Range) Check {
	c := rangeCheck("headings", CountHeadings(content), rng)
	if breakdown := headingBreakdown(content); breakdown != "" {
		c.Details = fmt.Sprintf("total headings: %d (%s)", c.Current, breakdown)
	}
	if !c.Passed && c.Current < rng.Min {
		c.Feedback = fmt.Sprintf("Add %d more headings of any level (current: %d, required: %s)",
			rng.Min-c.Current, c.Current, rng)
	}
	return c
}
