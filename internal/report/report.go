// Package report runs the full validation pipeline over a draft and folds
// the results into a single report: structural checks, hierarchical keyword
// analysis, quartile metrics, an edit plan, and an overall quality verdict.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hyperifyio/goseocheck/internal/actions"
	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/keywords"
	"github.com/hyperifyio/goseocheck/internal/precompute"
	"github.com/hyperifyio/goseocheck/internal/quartile"
	"github.com/hyperifyio/goseocheck/internal/structure"
)

// Status is the overall verdict derived from the quality score.
type Status int

const (
	Excellent Status = iota
	Good
	NeedsImprovement
	Poor
)

func (s Status) String() string {
	switch s {
	case Excellent:
		return "EXCELLENT"
	case Good:
		return "GOOD"
	case NeedsImprovement:
		return "NEEDS_IMPROVEMENT"
	}
	return "POOR"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func statusFor(score float64) Status {
	switch {
	case score >= 90:
		return Excellent
	case score >= 75:
		return Good
	case score >= 60:
		return NeedsImprovement
	}
	return Poor
}

// Report is the complete validation result for one draft at one level.
type Report struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Level       precompute.Level    `json:"level"`
	Checks      []structure.Check   `json:"checks"`
	Keywords    []keywords.Analysis `json:"keywords"`
	Metrics     []quartile.Metrics  `json:"metrics"`
	Stats       quartile.Aggregate  `json:"stats"`
	Plan        actions.Plan        `json:"plan"`

	PassRate         float64 `json:"passRate"`
	QualityScore     float64 `json:"qualityScore"`
	Status           Status  `json:"status"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
}

// Passed reports whether every check, keyword included, came out green.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Analyzer runs the pipeline for one guideline at one level. Now is
// overridable so tests can pin the timestamp.
type Analyzer struct {
	req     guideline.Requirements
	level   precompute.Level
	counter *keywords.Counter
	sv      *structure.Validator

	Now func() time.Time
}

func NewAnalyzer(req guideline.Requirements, level precompute.Level) (*Analyzer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		req:     req,
		level:   level,
		counter: keywords.NewCounter(req.Keywords),
		sv:      structure.NewValidator(req),
		Now:     time.Now,
	}, nil
}

// Analyze validates the draft and assembles the report. Keyword analyses are
// mirrored into the check list so a single pass/fail sweep covers
// everything.
func (a *Analyzer) Analyze(content string) *Report {
	r := &Report{
		GeneratedAt: a.Now().UTC(),
		Level:       a.level,
		Checks:      a.sv.Validate(content),
		Keywords:    a.counter.Analyze(content),
	}

	for _, ka := range r.Keywords {
		r.Checks = append(r.Checks, keywordCheck(ka))
		r.Metrics = append(r.Metrics, quartile.Analyze(ka.Keyword,
			guideline.KeywordRange{Min: ka.MinRequired, Max: ka.MaxAllowed}, ka.Total))
	}
	sort.Slice(r.Metrics, func(i, j int) bool {
		mi, mj := r.Metrics[i], r.Metrics[j]
		if mi.Priority != mj.Priority {
			return mi.Priority < mj.Priority
		}
		return mi.Keyword < mj.Keyword
	})
	r.Stats = quartile.Stats(r.Metrics)
	r.Plan = actions.Generate(a.level, r.Metrics, r.Checks)

	r.PassRate = passRate(r.Checks)
	r.QualityScore = qualityScore(r.PassRate, r.Stats)
	r.Status = statusFor(r.QualityScore)
	r.EstimatedMinutes = estimateMinutes(r.Plan.Actions)
	return r
}

func keywordCheck(ka keywords.Analysis) structure.Check {
	c := structure.Check{
		Metric:       ka.Keyword,
		Category:     structure.CategoryKeyword,
		Passed:       ka.Passes,
		Current:      ka.Total,
		Expected:     guideline.Range{Min: ka.MinRequired, Max: ka.MaxAllowed},
		CurrentLabel: fmt.Sprintf("%d", ka.Total),
		Feedback:     ka.Feedback,
	}
	if ka.IsCompound || ka.Compound > 0 {
		c.Details = fmt.Sprintf("standalone: %d, via parent phrases: %d", ka.Standalone, ka.Compound)
	}
	return c
}

func passRate(checks []structure.Check) float64 {
	if len(checks) == 0 {
		return 100
	}
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(checks)) * 100
}

// qualityScore blends check pass rate, average keyword health, and the share
// of keywords at their optimal count.
func qualityScore(passRate float64, stats quartile.Aggregate) float64 {
	return round1(passRate*0.4 + stats.HealthAvg*0.4 + stats.OptimalPct*0.2)
}

// estimateMinutes prices each action by how disruptive the edit is.
// Answering a missed question costs the most since it needs new prose.
func estimateMinutes(list []actions.Action) int {
	total := 0
	for _, a := range list {
		switch {
		case a.Type == actions.Answer && a.Priority == actions.Critical:
			total += 10
		case a.Priority == actions.Critical:
			total += 5
		case a.Priority == actions.High:
			total += 3
		case a.Priority == actions.Medium:
			total += 2
		default:
			total++
		}
	}
	// Floor of five minutes, clean reports included.
	if total < 5 {
		total = 5
	}
	return total
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
