// Package fastvalidate scores a draft against a precomputed guideline using
// plain occurrence counts. It trades the full hierarchical keyword breakdown
// for speed, which makes it the check to run inside a revision loop where a
// draft is validated many times.
package fastvalidate

import (
	"fmt"
	"math"
	"sort"

	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/keywords"
	"github.com/hyperifyio/goseocheck/internal/precompute"
	"github.com/hyperifyio/goseocheck/internal/structure"
)

// Status places a keyword count relative to its range and level target.
type Status int

const (
	BelowMin Status = iota
	BelowTarget
	AtTarget
	AboveTarget
	AboveMax
)

func (s Status) String() string {
	switch s {
	case BelowMin:
		return "below_min"
	case BelowTarget:
		return "below_target"
	case AtTarget:
		return "at_target"
	case AboveTarget:
		return "above_target"
	}
	return "above_max"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Severity ranks how urgently a keyword needs attention. Lower values sort
// first in feedback.
type Severity int

const (
	Critical Severity = iota
	High
	Medium
	Low
	Optimal
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	}
	return "optimal"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// KeywordFeedback is one actionable keyword line. Delta is target-current:
// positive means add occurrences, negative means remove.
type KeywordFeedback struct {
	Keyword  string   `json:"keyword"`
	Current  int      `json:"current"`
	Min      int      `json:"min"`
	Max      int      `json:"max"`
	Target   int      `json:"target"`
	Delta    int      `json:"delta"`
	Status   Status   `json:"status"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the outcome of one fast validation pass.
type Result struct {
	TotalKeywords     int               `json:"totalKeywords"`
	AtTarget          int               `json:"atTarget"`
	WithinRange       int               `json:"withinRange"`
	Score             float64           `json:"score"`
	StructureValid    bool              `json:"structureValid"`
	StructureFeedback []string          `json:"structureFeedback,omitempty"`
	Keywords          []KeywordFeedback `json:"keywords,omitempty"`
	Summary           string            `json:"summary"`
}

// Validator binds a precomputed guideline to one aggressiveness level.
type Validator struct {
	pre     *precompute.Precomputed
	level   precompute.Level
	counter *keywords.Counter
}

func New(pre *precompute.Precomputed, level precompute.Level) *Validator {
	return &Validator{
		pre:     pre,
		level:   level,
		counter: keywords.NewCounter(pre.KeywordRanges()),
	}
}

// Validate counts keywords and checks structural bounds in one pass over the
// content. The statuses of all keywords feed the score; the Keywords slice
// carries only the ones that need work, ordered most urgent first.
func (v *Validator) Validate(content string) *Result {
	targets := v.pre.Targets(v.level)
	counts := v.counter.Counts(content)

	res := &Result{TotalKeywords: len(targets)}
	for kw, t := range targets {
		fb := classify(kw, t, counts[kw])
		if fb.Status == AtTarget {
			res.AtTarget++
		}
		if fb.Current >= t.Min && fb.Current <= t.Max {
			res.WithinRange++
		}
		if fb.Severity != Optimal {
			res.Keywords = append(res.Keywords, fb)
		}
	}
	sort.Slice(res.Keywords, func(i, j int) bool {
		a, b := res.Keywords[i], res.Keywords[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		da, db := abs(a.Delta), abs(b.Delta)
		if da != db {
			return da > db
		}
		return a.Keyword < b.Keyword
	})

	res.StructureFeedback = v.structureIssues(content)
	res.StructureValid = len(res.StructureFeedback) == 0
	res.Score = score(res)
	res.Summary = summarize(res)
	return res
}

func classify(kw string, t precompute.KeywordTarget, current int) KeywordFeedback {
	fb := KeywordFeedback{
		Keyword: kw,
		Current: current,
		Min:     t.Min,
		Max:     t.Max,
		Target:  t.Target,
		Delta:   t.Target - current,
	}
	span := float64(t.Max - t.Min)
	switch {
	case current < t.Min:
		fb.Status = BelowMin
		fb.Severity = Critical
		fb.Message = fmt.Sprintf("Add '%s' at least %d more times (current: %d, minimum: %d)", kw, t.Min-current, current, t.Min)
	case current > t.Max:
		fb.Status = AboveMax
		fb.Severity = Critical
		fb.Message = fmt.Sprintf("Remove '%s' %d times (current: %d, maximum: %d)", kw, current-t.Max, current, t.Max)
	case current == t.Target:
		fb.Status = AtTarget
		fb.Severity = Optimal
	case current < t.Target:
		fb.Status = BelowTarget
		fb.Severity = belowTargetSeverity(float64(fb.Delta), span)
		fb.Message = fmt.Sprintf("Add '%s' %d more times to reach the target of %d (current: %d)", kw, fb.Delta, t.Target, current)
	default:
		fb.Status = AboveTarget
		fb.Severity = Low
		fb.Message = fmt.Sprintf("'%s' is above target but within range (current: %d, target: %d)", kw, current, t.Target)
	}
	return fb
}

// belowTargetSeverity scales with how far below target the count sits,
// relative to the range width.
func belowTargetSeverity(delta, span float64) Severity {
	if span <= 0 {
		return Low
	}
	pct := math.Abs(delta) / span
	switch {
	case pct > 0.5:
		return High
	case pct > 0.25:
		return Medium
	}
	return Low
}

func (v *Validator) structureIssues(content string) []string {
	bounds := v.pre.StructuralBounds()
	var out []string
	check := func(name string, current int, r guideline.Range) {
		switch {
		case current < r.Min:
			out = append(out, fmt.Sprintf("Add %d more %s (current: %d, required: %d)", r.Min-current, name, current, r.Min))
		case !r.Unbounded && current > r.Max:
			out = append(out, fmt.Sprintf("Remove %d %s (current: %d, max: %d)", current-r.Max, name, current, r.Max))
		}
	}
	visible := structure.VisibleText(content)
	check("paragraphs", structure.CountParagraphs(content), bounds.Paragraphs)
	check("images", structure.CountImages(content), bounds.Images)
	check("headings", structure.CountHeadings(content), bounds.Headings)
	check("characters", len(visible), bounds.Characters)
	check("words", structure.CountWords(visible), bounds.Words)
	return out
}

// score blends keyword placement (70%) with structural validity (30%).
// Keyword placement rewards being at target more than merely being in range.
func score(res *Result) float64 {
	keywordScore := 100.0
	if res.TotalKeywords > 0 {
		atPct := float64(res.AtTarget) / float64(res.TotalKeywords)
		inPct := float64(res.WithinRange) / float64(res.TotalKeywords)
		keywordScore = atPct*60 + inPct*40
	}
	structScore := 100.0
	if len(res.StructureFeedback) > 0 {
		structScore = 50.0
	}
	return round1(keywordScore*0.7 + structScore*0.3)
}

func summarize(res *Result) string {
	var label string
	switch {
	case res.Score >= 90:
		label = "Excellent"
	case res.Score >= 75:
		label = "Good"
	case res.Score >= 60:
		label = "Needs improvement"
	default:
		label = "Poor"
	}
	critical, high := 0, 0
	for _, fb := range res.Keywords {
		switch fb.Severity {
		case Critical:
			critical++
		case High:
			high++
		}
	}
	return fmt.Sprintf("%s | %d critical issues | %d high priority | %d structure issues",
		label, critical, high, len(res.StructureFeedback))
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
