// Package quartile classifies a keyword's current usage within its allowed
// occurrence range. The range is split into four equal-width zones; the zone,
// a percentile, a health score, and a recommended target fall out of that.
package quartile

import (
	"math"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

// Zone is the position of a count relative to the allowed range.
type Zone int

const (
	BelowRange Zone = iota
	Q1
	Q2
	Q3
	Q4
	AboveRange
)

func (z Zone) String() string {
	switch z {
	case BelowRange:
		return "BELOW_RANGE"
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	case AboveRange:
		return "ABOVE_RANGE"
	}
	return "UNKNOWN"
}

// MarshalText renders zones by name in JSON output.
func (z Zone) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

// Priority ranks how urgently a keyword needs adjustment. Lower value means
// more urgent.
type Priority int

const (
	Critical Priority = iota + 1
	High
	Medium
	Low
	Minimal
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "CRITICAL"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	case Minimal:
		return "MINIMAL"
	}
	return "UNKNOWN"
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// priorityFor maps a zone to its optimization priority.
func priorityFor(z Zone) Priority {
	switch z {
	case BelowRange, AboveRange:
		return Critical
	case Q1:
		return High
	case Q2:
		return Medium
	case Q3:
		return Low
	default:
		return Minimal
	}
}

// Metrics is the full quartile analysis for one keyword at one count.
type Metrics struct {
	Keyword string `json:"keyword"`
	Current int    `json:"current"`

	MinRequired int `json:"minRequired"`
	MaxAllowed  int `json:"maxAllowed"`

	// Boundaries partition [MinRequired, MaxAllowed] into four equal-width
	// zones; QB4 always equals MaxAllowed. With a degenerate range
	// (min == max) all four collapse to that value.
	QB1 float64 `json:"q1"`
	QB2 float64 `json:"q2"`
	QB3 float64 `json:"q3"`
	QB4 float64 `json:"q4"`

	Zone Zone `json:"zone"`

	// Percentile is the position within the range; below-min counts go
	// negative and above-max counts exceed 100.
	Percentile float64 `json:"percentile"`

	DistanceToMin    int     `json:"distanceToMin"`
	DistanceToMedian float64 `json:"distanceToMedian"`
	DistanceToMax    int     `json:"distanceToMax"`

	Priority    Priority `json:"priority"`
	HealthScore float64  `json:"healthScore"`

	TargetCount      int `json:"targetCount"`
	AdjustmentNeeded int `json:"adjustmentNeeded"`

	WithinRange bool `json:"withinRange"`
	Optimal     bool `json:"optimal"`
}

// Analyze computes all metrics for one keyword with range rng at count
// current. It is total: degenerate ranges and any count are handled without
// division by zero.
func Analyze(keyword string, rng guideline.KeywordRange, current int) Metrics {
	span := float64(rng.Max - rng.Min)

	m := Metrics{
		Keyword:     keyword,
		Current:     current,
		MinRequired: rng.Min,
		MaxAllowed:  rng.Max,
	}
	if span == 0 {
		m.QB1, m.QB2, m.QB3, m.QB4 = float64(rng.Min), float64(rng.Min), float64(rng.Min), float64(rng.Min)
	} else {
		m.QB1 = float64(rng.Min) + span*0.25
		m.QB2 = float64(rng.Min) + span*0.50
		m.QB3 = float64(rng.Min) + span*0.75
		m.QB4 = float64(rng.Max)
	}

	m.Zone = zoneFor(current, rng, m.QB1, m.QB2, m.QB3)
	m.Percentile = percentile(current, rng)

	m.DistanceToMin = current - rng.Min
	m.DistanceToMedian = float64(current) - m.QB2
	m.DistanceToMax = current - rng.Max

	m.Priority = priorityFor(m.Zone)
	m.HealthScore = healthScore(current, rng, m.QB2, m.QB3, m.Zone)

	m.TargetCount = defaultTarget(m.QB3, m.QB4, m.Zone, current, rng)
	m.AdjustmentNeeded = m.TargetCount - current

	m.WithinRange = rng.Contains(current)
	m.Optimal = m.Zone == Q3 || m.Zone == Q4
	return m
}

func zoneFor(count int, rng guideline.KeywordRange, q1, q2, q3 float64) Zone {
	switch {
	case count < rng.Min:
		return BelowRange
	case count > rng.Max:
		return AboveRange
	case float64(count) <= q1:
		return Q1
	case float64(count) <= q2:
		return Q2
	case float64(count) <= q3:
		return Q3
	default:
		return Q4
	}
}

func percentile(count int, rng guideline.KeywordRange) float64 {
	span := float64(rng.Max - rng.Min)
	if span == 0 {
		switch {
		case count == rng.Min:
			return 50
		case count < rng.Min:
			return 0
		default:
			return 100
		}
	}
	return float64(count-rng.Min) / span * 100
}

// healthScore maps a count to [0,100]. Out-of-range counts contribute at
// most 25, proportional to how far outside they sit. In-range counts map
// linearly into per-zone sub-bands: Q1 [25,40), Q2 [40,60), Q3 [60,90),
// Q4 [90,100].
func healthScore(count int, rng guideline.KeywordRange, q2, q3 float64, zone Zone) float64 {
	min, max := float64(rng.Min), float64(rng.Max)
	switch zone {
	case BelowRange:
		if rng.Min <= 0 {
			return 0
		}
		return math.Max(0, float64(count)/min*25)
	case AboveRange:
		if count <= 0 {
			return 0
		}
		return math.Max(0, max/float64(count)*25)
	case Q1:
		start, end := min, min+(max-min)*0.25
		return 25 + bandPosition(float64(count), start, end)*15
	case Q2:
		start := min + (max-min)*0.25
		return 40 + bandPosition(float64(count), start, q2)*20
	case Q3:
		return 60 + bandPosition(float64(count), q2, q3)*30
	default: // Q4
		return 90 + bandPosition(float64(count), q3, max)*10
	}
}

// bandPosition returns where v sits in [start, end] as a fraction. A
// zero-width band reports 1 so degenerate ranges land at the band top.
func bandPosition(v, start, end float64) float64 {
	if end == start {
		return 1
	}
	return (v - start) / (end - start)
}

// defaultTarget recommends a count: out-of-range pulls to the nearest bound,
// Q1/Q2 pushes to the middle of the upper half (the optimal zone), Q3/Q4
// keeps the current count.
func defaultTarget(q3, q4 float64, zone Zone, current int, rng guideline.KeywordRange) int {
	switch zone {
	case BelowRange:
		return rng.Min
	case AboveRange:
		return rng.Max
	case Q1, Q2:
		return int(math.Ceil((q3 + q4) / 2))
	default:
		return current
	}
}
