package actions

import (
	"strings"
	"testing"

	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/precompute"
	"github.com/hyperifyio/goseocheck/internal/quartile"
	"github.com/hyperifyio/goseocheck/internal/structure"
)

func TestBelowRangeKeywordAction(t *testing.T) {
	m := quartile.Analyze("shoes", guideline.KeywordRange{Min: 5, Max: 15}, 3)
	plan := Generate(precompute.Conservative, []quartile.Metrics{m}, nil)

	if len(plan.Actions) != 1 {
		t.Fatalf("actions = %+v", plan.Actions)
	}
	a := plan.Actions[0]
	if a.Type != Add || a.Priority != Critical {
		t.Fatalf("action = %+v", a)
	}
	// Conservative target: round(5 + 10*0.125) = 6.
	if a.Required != 6 || a.Delta != 3 {
		t.Fatalf("required = %d delta = %d", a.Required, a.Delta)
	}
}

func TestTargetZoneKeywordSkipped(t *testing.T) {
	// Count 11 sits in Q3, the upper level's target zone.
	m := quartile.Analyze("shoes", guideline.KeywordRange{Min: 5, Max: 15}, 11)
	plan := Generate(precompute.Upper, []quartile.Metrics{m}, nil)
	if len(plan.Actions) != 0 {
		t.Fatalf("in-zone keyword must produce no action: %+v", plan.Actions)
	}
}

func TestZeroDeltaSkipped(t *testing.T) {
	// Count 6 is Q1; conservative target is also 6, so nothing to do even
	// though the zone label differs from a strict midpoint.
	m := quartile.Analyze("shoes", guideline.KeywordRange{Min: 5, Max: 15}, 6)
	plan := Generate(precompute.Conservative, []quartile.Metrics{m}, nil)
	for _, a := range plan.Actions {
		if a.Delta == 0 {
			t.Fatalf("zero-delta action emitted: %+v", a)
		}
	}
}

func TestRemoveActionAboveRange(t *testing.T) {
	m := quartile.Analyze("shoes", guideline.KeywordRange{Min: 5, Max: 15}, 30)
	plan := Generate(precompute.Moderate, []quartile.Metrics{m}, nil)
	a := plan.Actions[0]
	if a.Type != Remove || a.Priority != Critical {
		t.Fatalf("action = %+v", a)
	}
	// Moderate target: round(5 + 10*0.375) = 9; delta -21.
	if a.Required != 9 || a.Delta != -21 {
		t.Fatalf("required = %d delta = %d", a.Required, a.Delta)
	}
}

func TestInRangePriorityScalesWithDistance(t *testing.T) {
	rng := guideline.KeywordRange{Min: 10, Max: 50}
	cases := []struct {
		count int
		want  Priority
	}{
		{count: 13, want: High},   // 22 short of target 35: 0.55 of span
		{count: 20, want: Medium}, // 15 short: 0.375 of span
		{count: 47, want: Medium}, // 12 over: 0.3 of span, direction irrelevant
		{count: 44, want: Low},    // 9 over: 0.225 of span
	}
	for _, tc := range cases {
		m := quartile.Analyze("shoes", rng, tc.count)
		plan := Generate(precompute.Upper, []quartile.Metrics{m}, nil)
		if len(plan.Actions) != 1 {
			t.Fatalf("count %d: actions = %+v", tc.count, plan.Actions)
		}
		if got := plan.Actions[0].Priority; got != tc.want {
			t.Fatalf("count %d: priority = %v, want %v", tc.count, got, tc.want)
		}
	}
}

func TestTargetZoneBoundaryInclusive(t *testing.T) {
	// Upper's zone on [10,50] is [30,40]; both edges count as in zone.
	rng := guideline.KeywordRange{Min: 10, Max: 50}
	for _, count := range []int{30, 40} {
		m := quartile.Analyze("shoes", rng, count)
		plan := Generate(precompute.Upper, []quartile.Metrics{m}, nil)
		if len(plan.Actions) != 0 {
			t.Fatalf("count %d on zone boundary must be skipped: %+v", count, plan.Actions)
		}
	}
}

func TestQuestionAction(t *testing.T) {
	check := structure.Check{
		Metric:   "Q: Are hemp shoes durable?",
		Category: structure.CategoryQuestion,
		Passed:   false,
	}
	plan := Generate(precompute.Upper, nil, []structure.Check{check})
	a := plan.Actions[0]
	if a.Type != Answer || a.Priority != Critical {
		t.Fatalf("action = %+v", a)
	}
	if a.Current != 0 || a.Required != 1 || a.Delta != 1 {
		t.Fatalf("question action counts = %+v", a)
	}
	if !strings.Contains(a.Description, "Are hemp shoes durable?") {
		t.Fatalf("description = %q", a.Description)
	}
}

func TestStructureActionPriorities(t *testing.T) {
	checks := []structure.Check{
		{Metric: "headings", Category: structure.CategoryStructure, Passed: false,
			Current: 0, Expected: guideline.Range{Min: 3, Max: 8}},
		{Metric: "images", Category: structure.CategoryStructure, Passed: false,
			Current: 6, Expected: guideline.Range{Min: 1, Max: 4}},
	}
	plan := Generate(precompute.Upper, nil, checks)
	if len(plan.Actions) != 2 {
		t.Fatalf("actions = %+v", plan.Actions)
	}
	byTarget := map[string]Action{}
	for _, a := range plan.Actions {
		byTarget[a.Target] = a
	}
	h := byTarget["headings"]
	if h.Type != Add || h.Priority != High || h.Required != 3 || h.Delta != 3 {
		t.Fatalf("headings action = %+v", h)
	}
	img := byTarget["images"]
	if img.Type != Remove || img.Priority != Medium || img.Required != 4 || img.Delta != -2 {
		t.Fatalf("images action = %+v", img)
	}
}

func TestPassedChecksIgnored(t *testing.T) {
	checks := []structure.Check{
		{Metric: "headings", Category: structure.CategoryStructure, Passed: true},
		{Metric: "Q: done?", Category: structure.CategoryQuestion, Passed: true},
	}
	plan := Generate(precompute.Upper, nil, checks)
	if len(plan.Actions) != 0 {
		t.Fatalf("passed checks must not produce actions: %+v", plan.Actions)
	}
}

func TestPlanOrdering(t *testing.T) {
	rng := guideline.KeywordRange{Min: 5, Max: 15}
	metrics := []quartile.Metrics{
		quartile.Analyze("q1word", rng, 6),  // in range, 5 short of target 11 -> medium
		quartile.Analyze("missing", rng, 0), // below range -> critical
	}
	checks := []structure.Check{
		{Metric: "images", Category: structure.CategoryStructure, Passed: false,
			Current: 0, Expected: guideline.Range{Min: 1, Max: 4}},
	}
	plan := Generate(precompute.Upper, metrics, checks)
	if len(plan.Actions) != 3 {
		t.Fatalf("actions = %+v", plan.Actions)
	}
	if plan.Actions[0].Target != "missing" {
		t.Fatalf("critical keyword must come first: %+v", plan.Actions)
	}
	for i := 1; i < len(plan.Actions); i++ {
		if plan.Actions[i-1].Priority > plan.Actions[i].Priority {
			t.Fatalf("plan not sorted by priority: %+v", plan.Actions)
		}
	}
}

func TestSummaryTotals(t *testing.T) {
	rng := guideline.KeywordRange{Min: 5, Max: 15}
	metrics := []quartile.Metrics{
		quartile.Analyze("missing", rng, 0), // add 11 at upper
		quartile.Analyze("excess", rng, 20), // remove 9 at upper
	}
	plan := Generate(precompute.Upper, metrics, nil)
	s := plan.Summary
	if s.ByType["add"] != 1 || s.ByType["remove"] != 1 {
		t.Fatalf("by type = %v", s.ByType)
	}
	if s.ByPriority["critical"] != 2 {
		t.Fatalf("by priority = %v", s.ByPriority)
	}
	if s.TotalAdditions != 11 || s.TotalRemovals != 9 {
		t.Fatalf("additions = %d removals = %d", s.TotalAdditions, s.TotalRemovals)
	}
}

func TestSummaryExcludesAnswersFromAdditions(t *testing.T) {
	rng := guideline.KeywordRange{Min: 5, Max: 15}
	metrics := []quartile.Metrics{
		quartile.Analyze("missing", rng, 0), // add 11 at upper
	}
	checks := []structure.Check{
		{Metric: "Q: why?", Category: structure.CategoryQuestion, Passed: false},
	}
	s := Generate(precompute.Upper, metrics, checks).Summary
	if s.ByType["answer"] != 1 {
		t.Fatalf("by type = %v", s.ByType)
	}
	// Only keyword/structure inserts count as additions.
	if s.TotalAdditions != 11 {
		t.Fatalf("additions = %d, want 11", s.TotalAdditions)
	}
}
