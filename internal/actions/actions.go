// Package actions turns validation findings into a concrete, ordered edit
// plan: which keywords to add or cut, which structural elements to fix, and
// which questions still need an answer.
package actions

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/precompute"
	"github.com/hyperifyio/goseocheck/internal/quartile"
	"github.com/hyperifyio/goseocheck/internal/structure"
)

// Type says what kind of edit an action asks for.
type Type int

const (
	Add Type = iota
	Remove
	Answer
)

func (t Type) String() string {
	switch t {
	case Add:
		return "add"
	case Remove:
		return "remove"
	}
	return "answer"
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Priority orders the plan. Lower values come first.
type Priority int

const (
	Critical Priority = iota
	High
	Medium
	Low
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	}
	return "low"
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Action is one edit instruction. Delta is required-current: positive means
// add that many, negative means remove.
type Action struct {
	Type        Type     `json:"type"`
	Priority    Priority `json:"priority"`
	Target      string   `json:"target"`
	Current     int      `json:"current"`
	Required    int      `json:"required"`
	Delta       int      `json:"delta"`
	Description string   `json:"description"`
}

// Summary aggregates a plan for quick display.
type Summary struct {
	ByPriority     map[string]int `json:"byPriority"`
	ByType         map[string]int `json:"byType"`
	TotalAdditions int            `json:"totalAdditions"`
	TotalRemovals  int            `json:"totalRemovals"`
}

// Plan is the full ordered action list plus its summary.
type Plan struct {
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}

// Generate builds the edit plan for one aggressiveness level from per-keyword
// quartile metrics and structural/question check results. Keywords already
// sitting in the level's target zone produce no action.
func Generate(level precompute.Level, metrics []quartile.Metrics, checks []structure.Check) Plan {
	var out []Action
	for _, m := range metrics {
		if a, ok := keywordAction(level, m); ok {
			out = append(out, a)
		}
	}
	for _, c := range checks {
		if c.Passed {
			continue
		}
		switch c.Category {
		case structure.CategoryQuestion:
			out = append(out, questionAction(c))
		case structure.CategoryStructure:
			out = append(out, structureAction(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		da, db := abs(a.Delta), abs(b.Delta)
		if da != db {
			return da > db
		}
		return a.Target < b.Target
	})
	return Plan{Actions: out, Summary: summarize(out)}
}

func keywordAction(level precompute.Level, m quartile.Metrics) (Action, bool) {
	span := float64(m.MaxAllowed - m.MinRequired)
	if inTargetZone(level, m, span) {
		return Action{}, false
	}
	target := m.MinRequired
	if span > 0 {
		target = int(math.RoundToEven(float64(m.MinRequired) + span*level.TargetFraction()))
	}
	delta := target - m.Current
	if delta == 0 {
		return Action{}, false
	}
	a := Action{
		Target:   m.Keyword,
		Current:  m.Current,
		Required: target,
		Delta:    delta,
		Priority: keywordPriority(m.Zone, delta, span),
	}
	if delta > 0 {
		a.Type = Add
		a.Description = fmt.Sprintf("Add '%s' %d more times to reach %d occurrences", m.Keyword, delta, target)
	} else {
		a.Type = Remove
		a.Description = fmt.Sprintf("Remove '%s' %d times to reach %d occurrences", m.Keyword, -delta, target)
	}
	return a, true
}

// inTargetZone reports whether the count already sits inside the level's
// sub-band of the range, bounds inclusive on both ends.
func inTargetZone(level precompute.Level, m quartile.Metrics, span float64) bool {
	lo, hi := level.ZoneBounds()
	zlo := float64(m.MinRequired) + span*lo
	zhi := float64(m.MinRequired) + span*hi
	c := float64(m.Current)
	return c >= zlo && c <= zhi
}

// keywordPriority ranks by how far the count is from the level target,
// as a fraction of the range span. Out-of-range counts are always critical.
func keywordPriority(zone quartile.Zone, delta int, span float64) Priority {
	if zone == quartile.BelowRange || zone == quartile.AboveRange {
		return Critical
	}
	if span <= 0 {
		return Low
	}
	pct := float64(abs(delta)) / span
	switch {
	case pct > 0.5:
		return High
	case pct > 0.25:
		return Medium
	}
	return Low
}

func questionAction(c structure.Check) Action {
	q := strings.TrimPrefix(c.Metric, "Q: ")
	return Action{
		Type:        Answer,
		Priority:    Critical,
		Target:      c.Metric,
		Current:     0,
		Required:    1,
		Delta:       1,
		Description: fmt.Sprintf("Answer the question '%s' in the content", q),
	}
}

func structureAction(c structure.Check) Action {
	a := Action{Target: c.Metric, Current: c.Current, Priority: structurePriority(c.Metric)}
	if c.Current < c.Expected.Min {
		a.Type = Add
		a.Required = c.Expected.Min
	} else {
		a.Type = Remove
		a.Required = c.Expected.Max
	}
	a.Delta = a.Required - a.Current
	if a.Delta > 0 {
		a.Description = fmt.Sprintf("Add %d more %s (current: %d, required: %d)", a.Delta, c.Metric, a.Current, a.Required)
	} else {
		a.Description = fmt.Sprintf("Remove %d %s (current: %d, max: %d)", -a.Delta, c.Metric, a.Current, a.Required)
	}
	return a
}

// Headings and word count shift meaning and ranking the most, so they rank
// above the other structural fixes.
func structurePriority(metric string) Priority {
	switch metric {
	case "headings", "words":
		return High
	}
	return Medium
}

func summarize(list []Action) Summary {
	s := Summary{
		ByPriority: make(map[string]int),
		ByType:     make(map[string]int),
	}
	for _, a := range list {
		s.ByPriority[a.Priority.String()]++
		s.ByType[a.Type.String()]++
		switch a.Type {
		case Add:
			if a.Delta > 0 {
				s.TotalAdditions += a.Delta
			}
		case Remove:
			if a.Delta < 0 {
				s.TotalRemovals += -a.Delta
			}
		}
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
