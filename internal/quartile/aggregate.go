package quartile

// Aggregate summarizes quartile metrics across all keywords of one content
// snapshot.
type Aggregate struct {
	Total int `json:"total"`

	ZoneCounts     map[string]int `json:"zoneCounts"`
	PriorityCounts map[string]int `json:"priorityCounts"`

	HealthAvg float64 `json:"healthAvg"`
	HealthMin float64 `json:"healthMin"`
	HealthMax float64 `json:"healthMax"`

	WithinRangeCount int     `json:"withinRangeCount"`
	WithinRangePct   float64 `json:"withinRangePct"`
	OptimalCount     int     `json:"optimalCount"`
	OptimalPct       float64 `json:"optimalPct"`

	// CriticalKeywords lists keywords out of range, in metrics order.
	CriticalKeywords []string `json:"criticalKeywords,omitempty"`
}

// Stats aggregates a metrics list. An empty list yields a zero Aggregate.
func Stats(list []Metrics) Aggregate {
	agg := Aggregate{
		Total:          len(list),
		ZoneCounts:     map[string]int{},
		PriorityCounts: map[string]int{},
	}
	if len(list) == 0 {
		return agg
	}

	sum := 0.0
	agg.HealthMin = list[0].HealthScore
	agg.HealthMax = list[0].HealthScore
	for _, m := range list {
		agg.ZoneCounts[m.Zone.String()]++
		agg.PriorityCounts[m.Priority.String()]++
		sum += m.HealthScore
		if m.HealthScore < agg.HealthMin {
			agg.HealthMin = m.HealthScore
		}
		if m.HealthScore > agg.HealthMax {
			agg.HealthMax = m.HealthScore
		}
		if m.WithinRange {
			agg.WithinRangeCount++
		}
		if m.Optimal {
			agg.OptimalCount++
		}
		if m.Priority == Critical {
			agg.CriticalKeywords = append(agg.CriticalKeywords, m.Keyword)
		}
	}
	agg.HealthAvg = sum / float64(len(list))
	agg.WithinRangePct = float64(agg.WithinRangeCount) / float64(len(list)) * 100
	agg.OptimalPct = float64(agg.OptimalCount) / float64(len(list)) * 100
	return agg
}
